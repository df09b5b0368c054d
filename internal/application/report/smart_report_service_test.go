package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSmartService(pdf *fakePDF) (*SmartReportService, *MockQueryRunner, *MockSavedReportRepository) {
	runner := new(MockQueryRunner)
	saved := new(MockSavedReportRepository)
	config := SmartReportConfig{ExportRowLimit: 2, CacheTTL: time.Minute, Locale: "en"}
	svc := NewSmartReportService(report.DefaultRegistry(), runner, saved, cache.NewInMemoryReportCache(10), nil, config, nil, nil)
	if pdf != nil {
		svc.pdf = pdf
	}
	return svc, runner, saved
}

func sampleResult() *report.Result {
	return &report.Result{
		Columns: []report.Column{
			{Key: "category", Label: "Category", Type: report.FieldString},
			{Key: "amount", Label: "Amount", Type: report.FieldCurrency},
		},
		Rows: []map[string]any{
			{"category": "Rent", "amount": "1200.00"},
			{"category": "Utilities", "amount": "310.50"},
			{"category": "Payroll", "amount": "5000.00"},
		},
		Total: 3,
	}
}

func TestSmartReportService_Fields(t *testing.T) {
	svc, _, _ := newSmartService(nil)

	fields, err := svc.Fields(report.EntityTransactions)
	require.NoError(t, err)
	require.NotEmpty(t, fields)
	assert.Equal(t, "date", fields[0].Key)
	assert.Contains(t, fields[0].Operators, report.OpBetween)

	_, err = svc.Fields("salaries")
	assert.ErrorIs(t, err, report.ErrUnknownEntity)

	assert.Len(t, svc.Entities(), 9)
}

func TestSmartReportService_Query_CachesResult(t *testing.T) {
	svc, runner, _ := newSmartService(nil)
	ctx := context.Background()
	scope := shared.BranchScope(uuid.New())
	q := report.Query{Entity: report.EntityTransactions, Fields: []string{"category", "amount"}}
	runner.On("Run", ctx, mock.AnythingOfType("*report.Plan"), scope).Return(sampleResult(), nil).Once()

	first, err := svc.Query(ctx, scope, q)
	require.NoError(t, err)
	second, err := svc.Query(ctx, scope, q)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Len(t, second.Rows, 3)
	runner.AssertNumberOfCalls(t, "Run", 1)

	other := shared.BranchScope(uuid.New())
	runner.On("Run", ctx, mock.AnythingOfType("*report.Plan"), other).Return(&report.Result{}, nil).Once()
	_, err = svc.Query(ctx, other, q)
	require.NoError(t, err)
	runner.AssertNumberOfCalls(t, "Run", 2)
}

func TestSmartReportService_Query_RejectsBadField(t *testing.T) {
	svc, runner, _ := newSmartService(nil)
	_, err := svc.Query(context.Background(), shared.AllBranches(), report.Query{
		Entity: report.EntityTransactions,
		Fields: []string{"password_hash"},
	})
	assert.ErrorIs(t, err, report.ErrInvalidField)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestSmartReportService_Export(t *testing.T) {
	ctx := context.Background()
	scope := shared.AllBranches()
	q := report.Query{Entity: report.EntityTransactions, Fields: []string{"category", "amount"}}

	t.Run("csv truncates at the row limit", func(t *testing.T) {
		svc, runner, _ := newSmartService(nil)
		runner.On("RunAll", ctx, mock.AnythingOfType("*report.Plan"), scope, 3).Return(sampleResult(), nil)

		file, err := svc.Export(ctx, scope, ExportRequest{Query: q, Title: "Expenses by Category", Format: FormatCSV})

		require.NoError(t, err)
		assert.True(t, file.Truncated)
		assert.Equal(t, 2, file.Rows)
		assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
		assert.True(t, strings.HasPrefix(file.Filename, "expenses-by-category-"))
		assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
		body := string(file.Data)
		assert.Contains(t, body, "Category,Amount")
		assert.Contains(t, body, "Utilities")
		assert.NotContains(t, body, "Payroll")
	})

	t.Run("pdf renders html", func(t *testing.T) {
		pdf := &fakePDF{}
		svc, runner, _ := newSmartService(pdf)
		res := sampleResult()
		res.Rows = res.Rows[:1]
		runner.On("RunAll", ctx, mock.AnythingOfType("*report.Plan"), scope, 3).Return(res, nil)

		file, err := svc.Export(ctx, scope, ExportRequest{Query: q, Format: "PDF"})

		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.ContentType)
		assert.Equal(t, []byte("%PDF-1.7"), file.Data)
		assert.Contains(t, pdf.html, "Rent")
		assert.False(t, file.Truncated)
	})

	t.Run("pdf without renderer", func(t *testing.T) {
		svc, _, _ := newSmartService(nil)
		_, err := svc.Export(ctx, scope, ExportRequest{Query: q, Format: FormatPDF})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "EXPORT_UNAVAILABLE", de.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		svc, _, _ := newSmartService(nil)
		_, err := svc.Export(ctx, scope, ExportRequest{Query: q, Format: "xlsx"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSmartReportService_SavedReports(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	owner := shared.Actor{UserID: uuid.New(), Username: "owner", BranchID: &branchID}
	colleague := shared.Actor{UserID: uuid.New(), Username: "colleague", BranchID: &branchID}
	def := report.Query{Entity: report.EntityPayables, Fields: []string{"number", "outstanding"}}

	svc, runner, saved := newSmartService(nil)
	var stored *report.SavedReport
	saved.On("Save", ctx, mock.AnythingOfType("*report.SavedReport")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*report.SavedReport) }).
		Return(nil)

	resp, err := svc.CreateSaved(ctx, owner, SavedReportRequest{Name: "Open payables", Definition: def})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, branchID, *resp.BranchID)
	saved.On("FindByID", ctx, stored.ID).Return(stored, nil)

	_, err = svc.GetSaved(ctx, colleague, stored.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "private reports are hidden from others")

	_, err = svc.UpdateSaved(ctx, owner, stored.ID, SavedReportRequest{Name: "Open payables", Definition: def, IsShared: true})
	require.NoError(t, err)

	got, err := svc.GetSaved(ctx, colleague, stored.ID)
	require.NoError(t, err)
	assert.True(t, got.IsShared)

	assert.ErrorIs(t, svc.DeleteSaved(ctx, colleague, stored.ID), report.ErrNotOwner)

	runner.On("Run", ctx, mock.AnythingOfType("*report.Plan"), colleague.Scope()).Return(&report.Result{Total: 7}, nil)
	result, err := svc.RunSaved(ctx, colleague, stored.ID, RunSavedReportRequest{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Total)
	plan := runner.Calls[0].Arguments.Get(1).(*report.Plan)
	assert.Equal(t, 2, plan.Page)
}

func TestSmartReportService_CreateSaved_InvalidDefinition(t *testing.T) {
	svc, _, saved := newSmartService(nil)
	admin := shared.Actor{UserID: uuid.New(), IsAdmin: true}

	_, err := svc.CreateSaved(context.Background(), admin, SavedReportRequest{
		Name:       "Broken",
		Definition: report.Query{Entity: "users"},
	})

	assert.ErrorIs(t, err, report.ErrUnknownEntity)
	saved.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "q1-sales-by-branch-20250304-050607.pdf", fileName("  Q1 Sales / by Branch ", "pdf", at))
	assert.Equal(t, "report-20250304-050607.csv", fileName("***", "csv", at))
}
