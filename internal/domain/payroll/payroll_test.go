package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmployee(t *testing.T) *Employee {
	t.Helper()
	e, err := NewEmployee(uuid.New(), uuid.New(), EmployeeInput{
		Code:       "emp-001",
		FullName:   "  Jane   Doe ",
		HireDate:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		BaseSalary: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)
	return e
}

func TestNewEmployee(t *testing.T) {
	e := newTestEmployee(t)
	assert.Equal(t, "EMP-001", e.Code)
	assert.Equal(t, "Jane Doe", e.FullName)
	assert.Equal(t, EmployeeActive, e.Status)

	tests := []struct {
		name string
		in   EmployeeInput
	}{
		{"bad code", EmployeeInput{Code: "a b", FullName: "x", HireDate: time.Now()}},
		{"no name", EmployeeInput{Code: "A1", HireDate: time.Now()}},
		{"bad email", EmployeeInput{Code: "A1", FullName: "x", Email: "nope", HireDate: time.Now()}},
		{"negative salary", EmployeeInput{Code: "A1", FullName: "x", HireDate: time.Now(), BaseSalary: decimal.NewFromInt(-1)}},
		{"no hire date", EmployeeInput{Code: "A1", FullName: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmployee(uuid.New(), uuid.Nil, tt.in)
			assert.Error(t, err)
		})
	}
}

func TestEmployee_Terminate(t *testing.T) {
	e := newTestEmployee(t)
	require.NoError(t, e.Terminate(time.Now()))
	assert.False(t, e.IsPayable())
	assert.ErrorIs(t, e.Terminate(time.Now()), ErrEmployeeTerminated)
	assert.ErrorIs(t, e.SetStatus(EmployeeActive), ErrEmployeeTerminated)
}

func TestValidatePeriod(t *testing.T) {
	assert.NoError(t, ValidatePeriod("2025-01"))
	assert.NoError(t, ValidatePeriod("2025-12"))
	assert.Error(t, ValidatePeriod("2025-13"))
	assert.Error(t, ValidatePeriod("2025-1"))
	assert.Equal(t, "2025-02", PeriodOf(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))
}

func TestRecord_NetPay(t *testing.T) {
	e := newTestEmployee(t)
	r, err := NewRecord(e, uuid.Nil, "2025-01", Amounts{
		BaseSalary: decimal.NewFromInt(3000),
		Allowances: decimal.NewFromInt(200),
		Bonuses:    decimal.NewFromInt(100),
		Deductions: decimal.NewFromInt(450),
	})
	require.NoError(t, err)
	assert.Equal(t, "2850", r.NetPay.String())
	assert.Equal(t, "3300", r.Gross().String())

	_, err = NewRecord(e, uuid.Nil, "2025-01", Amounts{BaseSalary: decimal.NewFromInt(10), Deductions: decimal.NewFromInt(11)})
	assert.ErrorIs(t, err, ErrNegativeNetPay)
}

func TestRecord_Lifecycle(t *testing.T) {
	e := newTestEmployee(t)
	r, err := NewDraftFromEmployee(e, uuid.Nil, "2025-01")
	require.NoError(t, err)
	assert.Equal(t, RecordDraft, r.Status)

	txID := uuid.New()
	assert.Error(t, r.MarkPaid(txID, time.Now()))

	require.NoError(t, r.Approve(uuid.New(), time.Now()))
	assert.Error(t, r.Update(Amounts{BaseSalary: decimal.NewFromInt(1)}))
	assert.Error(t, r.CanDelete())

	require.NoError(t, r.MarkPaid(txID, time.Now()))
	assert.Equal(t, RecordPaid, r.Status)
	assert.Equal(t, txID, *r.TransactionID)
	events := r.PullDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePayrollPaid, events[0].EventType())
}

func TestRecord_InactiveEmployee(t *testing.T) {
	e := newTestEmployee(t)
	require.NoError(t, e.SetStatus(EmployeeInactive))
	_, err := NewDraftFromEmployee(e, uuid.Nil, "2025-01")
	assert.Error(t, err)
}
