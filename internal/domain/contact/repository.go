package contact

import (
	"context"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows contact listings
type Filter struct {
	shared.Filter
	Scope    shared.Scope
	Type     Type
	IsActive *bool
}

// Balance is what a contact owes and is owed
type Balance struct {
	ContactID             uuid.UUID       `json:"contact_id"`
	PayableOutstanding    decimal.Decimal `json:"payable_outstanding"`
	ReceivableOutstanding decimal.Decimal `json:"receivable_outstanding"`
	Net                   decimal.Decimal `json:"net"`
}

// Repository persists contacts
type Repository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Contact, error)
	// FindByNormalizedName matches on trimmed, whitespace-collapsed, lower-cased names
	FindByNormalizedName(ctx context.Context, branchID uuid.UUID, normalized string) (*Contact, error)
	FindAll(ctx context.Context, filter Filter) ([]Contact, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Save(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}
