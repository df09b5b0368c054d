package inventory

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	Scope        shared.Scope
	Category     string
	LowStockOnly bool
	IsActive     *bool
}

// MovementFilter narrows movement listings
type MovementFilter struct {
	shared.Filter
	Scope  shared.Scope
	ItemID *uuid.UUID
	Type   MovementType
	From   *time.Time
	To     *time.Time
}

// CategoryValuation is the stock value of one category
type CategoryValuation struct {
	Category  string          `json:"category"`
	ItemCount int64           `json:"item_count"`
	Quantity  decimal.Decimal `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// ItemRepository persists items
type ItemRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Item, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
	ExistsBySKU(ctx context.Context, branchID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	Valuation(ctx context.Context, scope shared.Scope) ([]CategoryValuation, error)
	CountLowStock(ctx context.Context, scope shared.Scope) (int64, error)
}

// MovementRepository persists stock movements
type MovementRepository interface {
	Create(ctx context.Context, m *Movement) error
	FindAll(ctx context.Context, filter MovementFilter) ([]Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int64, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}
