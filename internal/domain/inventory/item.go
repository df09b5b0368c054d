package inventory

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for InventoryItem
const AggregateTypeInventoryItem = "InventoryItem"

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-.]{0,49}$`)

// Inventory errors
var (
	ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrItemHasMovements  = shared.NewDomainError("ITEM_HAS_MOVEMENTS", "Item has stock movements; deactivate it instead")
	ErrItemInactive      = shared.NewDomainError("ITEM_INACTIVE", "Item is inactive")
	ErrDuplicateSKU      = shared.NewDomainError("ALREADY_EXISTS", "An item with this SKU already exists in the branch")
)

// Item is a stocked article of a branch
type Item struct {
	shared.BranchAggregateRoot
	SKU          string
	Name         string
	Category     string
	Unit         string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	SalePrice    decimal.Decimal
	ReorderLevel decimal.Decimal
	IsActive     bool
}

// ItemInput carries the editable fields of an item
type ItemInput struct {
	SKU          string
	Name         string
	Category     string
	Unit         string
	UnitCost     decimal.Decimal
	SalePrice    decimal.Decimal
	ReorderLevel decimal.Decimal
}

func (in *ItemInput) normalize() error {
	in.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	if !skuPattern.MatchString(in.SKU) {
		return shared.NewValidationError("sku", "SKU must be 1-50 letters, digits, '-', '_' or '.'")
	}
	in.Name = shared.CleanName(in.Name)
	if in.Name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Unit == "" {
		in.Unit = "pcs"
	}
	for field, v := range map[string]decimal.Decimal{"unit_cost": in.UnitCost, "sale_price": in.SalePrice, "reorder_level": in.ReorderLevel} {
		if err := shared.RequireNonNegative(field, v); err != nil {
			return err
		}
	}
	return nil
}

// NewItem creates an item with zero stock. The opening cost is kept as the reference unit cost.
func NewItem(branchID, createdBy uuid.UUID, in ItemInput) (*Item, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	return &Item{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		SKU:                 in.SKU,
		Name:                in.Name,
		Category:            in.Category,
		Unit:                in.Unit,
		Quantity:            decimal.Zero,
		UnitCost:            in.UnitCost.Round(4),
		SalePrice:           shared.RoundMoney(in.SalePrice),
		ReorderLevel:        in.ReorderLevel,
		IsActive:            true,
	}, nil
}

// Update replaces descriptive and pricing fields. Quantity only changes through movements.
func (i *Item) Update(in ItemInput) error {
	if err := in.normalize(); err != nil {
		return err
	}
	i.SKU = in.SKU
	i.Name = in.Name
	i.Category = in.Category
	i.Unit = in.Unit
	i.SalePrice = shared.RoundMoney(in.SalePrice)
	i.ReorderLevel = in.ReorderLevel
	if i.Quantity.IsZero() {
		i.UnitCost = in.UnitCost.Round(4)
	}
	i.Touch()
	i.IncrementVersion()
	return nil
}

// IsLowStock reports whether quantity is at or below the reorder level.
// A reorder level of zero means the item is not tracked for alerts.
func (i *Item) IsLowStock() bool {
	return i.ReorderLevel.IsPositive() && i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// Value returns quantity times unit cost
func (i *Item) Value() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// Activate makes the item available for movements
func (i *Item) Activate() {
	i.IsActive = true
	i.Touch()
	i.IncrementVersion()
}

// Deactivate hides the item from new movements
func (i *Item) Deactivate() {
	i.IsActive = false
	i.Touch()
	i.IncrementVersion()
}

// ApplyMovement changes stock and returns the movement record.
// IN recomputes the weighted average cost. OUT refuses to go negative.
// ADJUSTMENT sets the counted quantity and records the signed delta.
func (i *Item) ApplyMovement(createdBy uuid.UUID, in MovementInput) (*Movement, error) {
	if !i.IsActive {
		return nil, ErrItemInactive
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	wasLow := i.IsLowStock()
	delta := in.Quantity
	unitCost := in.UnitCost

	switch in.Type {
	case MovementIn:
		if unitCost.IsZero() {
			unitCost = i.UnitCost
		}
		total := i.Quantity.Add(in.Quantity)
		if i.Quantity.IsPositive() && total.IsPositive() {
			value := i.Quantity.Mul(i.UnitCost).Add(in.Quantity.Mul(unitCost))
			i.UnitCost = value.Div(total).Round(4)
		} else {
			i.UnitCost = unitCost.Round(4)
		}
		i.Quantity = total
	case MovementOut:
		if in.Quantity.GreaterThan(i.Quantity) {
			return nil, ErrInsufficientStock.WithDetail("available", i.Quantity.String())
		}
		unitCost = i.UnitCost
		delta = in.Quantity.Neg()
		i.Quantity = i.Quantity.Sub(in.Quantity)
	case MovementAdjustment:
		unitCost = i.UnitCost
		delta = in.Quantity.Sub(i.Quantity)
		i.Quantity = in.Quantity
	}

	m := &Movement{
		ID:           uuid.New(),
		BranchID:     i.BranchID,
		ItemID:       i.ID,
		Type:         in.Type,
		Quantity:     delta,
		UnitCost:     unitCost,
		BalanceAfter: i.Quantity,
		Reference:    in.Reference,
		Notes:        in.Notes,
		Date:         in.Date,
		CreatedAt:    time.Now(),
	}
	if createdBy != uuid.Nil {
		m.CreatedBy = &createdBy
	}
	i.Touch()
	i.IncrementVersion()

	if i.IsLowStock() && !wasLow {
		i.AddDomainEvent(NewStockLowEvent(i))
	}
	return m, nil
}
