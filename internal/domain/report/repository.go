package report

import (
	"context"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// QueryRunner executes compiled plans. The scope's branch becomes a mandatory condition.
type QueryRunner interface {
	Run(ctx context.Context, plan *Plan, scope shared.Scope) (*Result, error)
	// RunAll ignores pagination and returns at most limit rows
	RunAll(ctx context.Context, plan *Plan, scope shared.Scope, limit int) (*Result, error)
}

// SavedReportFilter narrows saved report listings to what a user may see
type SavedReportFilter struct {
	shared.Filter
	UserID uuid.UUID
	Scope  shared.Scope
	Entity string
}

// SavedReportRepository persists saved reports
type SavedReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SavedReport, error)
	FindVisible(ctx context.Context, filter SavedReportFilter) ([]SavedReport, error)
	CountVisible(ctx context.Context, filter SavedReportFilter) (int64, error)
	Save(ctx context.Context, r *SavedReport) error
	Delete(ctx context.Context, id uuid.UUID) error
}
