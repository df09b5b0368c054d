package report

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockQueryRunner struct {
	mock.Mock
}

func (m *MockQueryRunner) Run(ctx context.Context, plan *report.Plan, scope shared.Scope) (*report.Result, error) {
	args := m.Called(ctx, plan, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Result), args.Error(1)
}

func (m *MockQueryRunner) RunAll(ctx context.Context, plan *report.Plan, scope shared.Scope, limit int) (*report.Result, error) {
	args := m.Called(ctx, plan, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Result), args.Error(1)
}

type MockSavedReportRepository struct {
	mock.Mock
}

func (m *MockSavedReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.SavedReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SavedReport), args.Error(1)
}

func (m *MockSavedReportRepository) FindVisible(ctx context.Context, filter report.SavedReportFilter) ([]report.SavedReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SavedReport), args.Error(1)
}

func (m *MockSavedReportRepository) CountVisible(ctx context.Context, filter report.SavedReportFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSavedReportRepository) Save(ctx context.Context, r *report.SavedReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockSavedReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type fakePDF struct {
	html string
}

func (f *fakePDF) Render(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.7"), nil
}

func (f *fakePDF) Close() error { return nil }

// The dashboard stubs below implement only what the dashboard calls.

type stubTransactions struct {
	finance.TransactionRepository
	totals []finance.CategoryTotal
	trend  []finance.PeriodTotal
	filter finance.TransactionFilter
	calls  int
}

func (s *stubTransactions) SumByCategory(_ context.Context, filter finance.TransactionFilter) ([]finance.CategoryTotal, error) {
	s.filter = filter
	s.calls++
	return s.totals, nil
}

func (s *stubTransactions) Trend(_ context.Context, filter finance.TransactionFilter, _ string) ([]finance.PeriodTotal, error) {
	s.filter = filter
	return s.trend, nil
}

type stubPayables struct {
	finance.AccountPayableRepository
	summary *finance.DocumentSummary
}

func (s *stubPayables) Summary(context.Context, shared.Scope, time.Time, int) (*finance.DocumentSummary, error) {
	return s.summary, nil
}

type stubReceivables struct {
	finance.AccountReceivableRepository
	summary *finance.DocumentSummary
	err     error
}

func (s *stubReceivables) Summary(context.Context, shared.Scope, time.Time, int) (*finance.DocumentSummary, error) {
	return s.summary, s.err
}

type stubItems struct {
	inventory.ItemRepository
	low int64
}

func (s *stubItems) CountLowStock(context.Context, shared.Scope) (int64, error) {
	return s.low, nil
}

type stubPayroll struct {
	payroll.RecordRepository
	unpaid decimal.Decimal
	count  int64
}

func (s *stubPayroll) UnpaidTotal(context.Context, shared.Scope) (decimal.Decimal, int64, error) {
	return s.unpaid, s.count, nil
}
