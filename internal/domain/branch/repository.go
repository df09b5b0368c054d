package branch

import (
	"context"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrBranchInUse is returned when deleting a branch that still owns records
var ErrBranchInUse = shared.NewDomainError("BRANCH_IN_USE", "Branch still has users or financial records")

// Repository persists branches
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindByCode(ctx context.Context, code string) (*Branch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferences counts users and branch-owned records pointing at the branch
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}
