package inventory

import (
	"time"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	BranchID     *uuid.UUID      `json:"branch_id"`
	SKU          string          `json:"sku" binding:"required,max=50"`
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"max=100"`
	Unit         string          `json:"unit" binding:"max=20"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest represents a request to update an inventory item.
// Unit cost only changes while the item holds no stock.
type UpdateItemRequest struct {
	SKU          *string          `json:"sku" binding:"omitempty,max=50"`
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	IsActive     *bool            `json:"is_active"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=sku name category quantity unit_cost sale_price created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	StockValue   decimal.Decimal `json:"stock_value"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsActive     bool            `json:"is_active"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// RecordMovementRequest records stock moving in, out, or a stock count.
// For ADJUSTMENT, quantity is the counted stock.
type RecordMovementRequest struct {
	Type      string          `json:"type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=1000"`
	Date      string          `json:"date"`
}

// MovementListFilter represents filter options for the movement list
type MovementListFilter struct {
	ItemID   *uuid.UUID `form:"item_id"`
	Type     string     `form:"type" binding:"omitempty,oneof=IN OUT ADJUSTMENT"`
	From     string     `form:"from"`
	To       string     `form:"to"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=date type quantity created_at"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents a stock ledger line
type MovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	ItemSKU      string          `json:"item_sku,omitempty"`
	ItemName     string          `json:"item_name,omitempty"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference"`
	Notes        string          `json:"notes"`
	Date         string          `json:"date"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementResult is returned after a movement is recorded
type MovementResult struct {
	Movement MovementResponse `json:"movement"`
	Item     ItemResponse     `json:"item"`
}

// ValuationResponse totals stock value overall and per category
type ValuationResponse struct {
	TotalValue    decimal.Decimal               `json:"total_value"`
	TotalItems    int64                         `json:"total_items"`
	LowStockCount int64                         `json:"low_stock_count"`
	Categories    []inventory.CategoryValuation `json:"categories"`
}

// ToItemResponse converts a domain item
func ToItemResponse(i *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		BranchID:     i.BranchID,
		SKU:          i.SKU,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		Quantity:     i.Quantity,
		UnitCost:     i.UnitCost,
		SalePrice:    i.SalePrice,
		ReorderLevel: i.ReorderLevel,
		StockValue:   shared.RoundMoney(i.Value()),
		IsLowStock:   i.IsLowStock(),
		IsActive:     i.IsActive,
		CreatedBy:    i.CreatedBy,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		Version:      i.Version,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// ToMovementResponse converts a domain movement
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		BranchID:     m.BranchID,
		ItemID:       m.ItemID,
		ItemSKU:      m.ItemSKU,
		ItemName:     m.ItemName,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		BalanceAfter: m.BalanceAfter,
		Reference:    m.Reference,
		Notes:        m.Notes,
		Date:         m.Date.Format(shared.DateLayout),
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.Movement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}
