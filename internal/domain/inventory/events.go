package inventory

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeStockLow fires when an item drops to its reorder level
const EventTypeStockLow = "StockLow"

// StockLowEvent is published when a movement brings an item to or below its reorder level
type StockLowEvent struct {
	shared.BaseDomainEvent
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewStockLowEvent creates a StockLowEvent
func NewStockLowEvent(i *Item) *StockLowEvent {
	return &StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLow, AggregateTypeInventoryItem, i.ID, i.BranchID),
		SKU:             i.SKU,
		Name:            i.Name,
		Quantity:        i.Quantity,
		ReorderLevel:    i.ReorderLevel,
	}
}
