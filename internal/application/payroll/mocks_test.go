package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Employee, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, filter payroll.EmployeeFilter) ([]payroll.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Count(ctx context.Context, filter payroll.EmployeeFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]payroll.Employee, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ExistsByCode(ctx context.Context, branchID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, branchID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *payroll.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Record, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Record, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Record), args.Error(1)
}

func (m *MockRecordRepository) FindAll(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.Record), args.Error(1)
}

func (m *MockRecordRepository) Count(ctx context.Context, filter payroll.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error) {
	args := m.Called(ctx, employeeID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) EmployeeIDsForPeriod(ctx context.Context, branchID uuid.UUID, period string) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, branchID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockRecordRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) Save(ctx context.Context, r *payroll.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecordRepository) Summary(ctx context.Context, scope shared.Scope, period string) (*payroll.PeriodSummary, error) {
	args := m.Called(ctx, scope, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PeriodSummary), args.Error(1)
}

func (m *MockRecordRepository) UnpaidTotal(ctx context.Context, scope shared.Scope) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

// MockTransactionRepository only needs Save for payroll payments
type MockTransactionRepository struct {
	mock.Mock
	finance.TransactionRepository
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *finance.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func newEmployee(t *testing.T, branchID uuid.UUID, code string, salary int64) *payroll.Employee {
	t.Helper()
	e, err := payroll.NewEmployee(branchID, uuid.New(), payroll.EmployeeInput{
		Code:       code,
		FullName:   "Employee " + code,
		HireDate:   time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC),
		BaseSalary: decimal.NewFromInt(salary),
	})
	require.NoError(t, err)
	e.RestoreVersion(1)
	return e
}
