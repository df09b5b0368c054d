package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for stock items.
// SKU is unique per branch.
type InventoryItemModel struct {
	BranchAggregateModel
	SKU          string          `gorm:"type:varchar(50);not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100);index"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	SalePrice    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain Item
func (m *InventoryItemModel) ToDomain() *inventory.Item {
	it := &inventory.Item{
		SKU:          m.SKU,
		Name:         m.Name,
		Category:     m.Category,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		SalePrice:    m.SalePrice,
		ReorderLevel: m.ReorderLevel,
		IsActive:     m.IsActive,
	}
	m.PopulateBranchAggregateRoot(&it.BranchAggregateRoot)
	return it
}

// InventoryItemModelFromDomain converts a domain Item to its model
func InventoryItemModelFromDomain(it *inventory.Item) *InventoryItemModel {
	m := &InventoryItemModel{
		SKU:          it.SKU,
		Name:         it.Name,
		Category:     it.Category,
		Unit:         it.Unit,
		Quantity:     it.Quantity,
		UnitCost:     it.UnitCost,
		SalePrice:    it.SalePrice,
		ReorderLevel: it.ReorderLevel,
		IsActive:     it.IsActive,
	}
	m.FromDomainBranchAggregateRoot(it.BranchAggregateRoot)
	return m
}

// StockMovementModel is an append-only record of a stock change
type StockMovementModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	BranchID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	ItemID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Type         string              `gorm:"type:varchar(20);not null;index"`
	Quantity     decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	UnitCost     decimal.Decimal     `gorm:"type:numeric(18,4);not null;default:0"`
	BalanceAfter decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	Reference    string              `gorm:"type:varchar(100)"`
	Notes        string              `gorm:"type:text"`
	Date         time.Time           `gorm:"type:date;not null;index"`
	CreatedBy    *uuid.UUID          `gorm:"type:uuid"`
	CreatedAt    time.Time           `gorm:"not null"`
	Item         *InventoryItemModel `gorm:"foreignKey:ItemID;references:ID"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the model to a domain Movement
func (m *StockMovementModel) ToDomain() inventory.Movement {
	mv := inventory.Movement{
		ID:           m.ID,
		BranchID:     m.BranchID,
		ItemID:       m.ItemID,
		Type:         inventory.MovementType(m.Type),
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		BalanceAfter: m.BalanceAfter,
		Reference:    m.Reference,
		Notes:        m.Notes,
		Date:         m.Date,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
	}
	if m.Item != nil {
		mv.ItemSKU = m.Item.SKU
		mv.ItemName = m.Item.Name
	}
	return mv
}

// StockMovementModelFromDomain converts a domain Movement to its model
func StockMovementModelFromDomain(mv *inventory.Movement) *StockMovementModel {
	return &StockMovementModel{
		ID:           mv.ID,
		BranchID:     mv.BranchID,
		ItemID:       mv.ItemID,
		Type:         string(mv.Type),
		Quantity:     mv.Quantity,
		UnitCost:     mv.UnitCost,
		BalanceAfter: mv.BalanceAfter,
		Reference:    mv.Reference,
		Notes:        mv.Notes,
		Date:         mv.Date,
		CreatedBy:    mv.CreatedBy,
		CreatedAt:    mv.CreatedAt,
	}
}
