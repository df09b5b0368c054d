package payroll

import (
	"context"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	shared.Filter
	Scope      shared.Scope
	Status     EmployeeStatus
	Department string
}

// RecordFilter narrows payroll listings
type RecordFilter struct {
	shared.Filter
	Scope      shared.Scope
	Period     string
	Status     RecordStatus
	EmployeeID *uuid.UUID
}

// PeriodSummary aggregates one payroll period
type PeriodSummary struct {
	Period      string          `json:"period"`
	Headcount   int64           `json:"headcount"`
	Gross       decimal.Decimal `json:"gross"`
	Deductions  decimal.Decimal `json:"deductions"`
	Net         decimal.Decimal `json:"net"`
	PaidCount   int64           `json:"paid_count"`
	PaidNet     decimal.Decimal `json:"paid_net"`
	UnpaidCount int64           `json:"unpaid_count"`
	UnpaidNet   decimal.Decimal `json:"unpaid_net"`
}

// GenerateResult reports a bulk draft generation
type GenerateResult struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Count(ctx context.Context, filter EmployeeFilter) (int64, error)
	FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]Employee, error)
	ExistsByCode(ctx context.Context, branchID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordRepository persists payroll records
type RecordRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Record, error)
	FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Record, error)
	FindAll(ctx context.Context, filter RecordFilter) ([]Record, error)
	Count(ctx context.Context, filter RecordFilter) (int64, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error)
	EmployeeIDsForPeriod(ctx context.Context, branchID uuid.UUID, period string) (map[uuid.UUID]bool, error)
	CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error)
	Save(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, scope shared.Scope, period string) (*PeriodSummary, error)
	UnpaidTotal(ctx context.Context, scope shared.Scope) (decimal.Decimal, int64, error)
}
