package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const lowStockCondition = "reorder_level > 0 AND quantity <= reorder_level"

// GormInventoryItemRepository implements inventory.ItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an item visible in the scope
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*inventory.Item, error) {
	var model models.InventoryItemModel
	if err := scoped(r.db.WithContext(ctx), scope, "branch_id").First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an item and locks its row with SELECT ... FOR UPDATE
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*inventory.Item, error) {
	var model models.InventoryItemModel
	query := forUpdate(scoped(r.db.WithContext(ctx), scope, "branch_id"))
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists items
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	var rows []models.InventoryItemModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, InventorySortFields, "sku")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Count counts items matching the filter
func (r *GormInventoryItemRepository) Count(ctx context.Context, filter inventory.ItemFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormInventoryItemRepository) filtered(ctx context.Context, filter inventory.ItemFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "sku", "name", "category")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.LowStockOnly {
		query = query.Where(lowStockCondition)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ExistsBySKU checks whether a branch already uses the SKU, ignoring excludeID
func (r *GormInventoryItemRepository) ExistsBySKU(ctx context.Context, branchID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).
		Where("branch_id = ? AND sku = ?", branchID, sku)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates an item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return saveAggregate(ctx, r.db, models.InventoryItemModelFromDomain(item), item.ID, &item.BaseAggregateRoot)
}

// Delete removes an item
func (r *GormInventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.InventoryItemModel{}, id)
}

type valuationRow struct {
	Category  string
	ItemCount int64
	Quantity  decimal.Decimal
	Value     decimal.Decimal
}

// Valuation sums quantity times unit cost per category for active items
func (r *GormInventoryItemRepository) Valuation(ctx context.Context, scope shared.Scope) ([]inventory.CategoryValuation, error) {
	var rows []valuationRow
	err := scoped(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), scope, "branch_id").
		Where("is_active = ?", true).
		Select("category, COUNT(*) AS item_count, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(quantity * unit_cost), 0) AS value").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]inventory.CategoryValuation, len(rows))
	for i, row := range rows {
		out[i] = inventory.CategoryValuation{
			Category:  row.Category,
			ItemCount: row.ItemCount,
			Quantity:  row.Quantity,
			Value:     row.Value.Round(2),
		}
	}
	return out, nil
}

// CountLowStock counts active items at or below their reorder level
func (r *GormInventoryItemRepository) CountLowStock(ctx context.Context, scope shared.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}), scope, "branch_id").
		Where("is_active = ?", true).
		Where(lowStockCondition).
		Count(&count).Error
	return count, err
}

var _ inventory.ItemRepository = (*GormInventoryItemRepository)(nil)

// GormStockMovementRepository implements inventory.MovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, m *inventory.Movement) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(m)).Error)
}

// FindAll lists movements, newest first by default
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter inventory.MovementFilter) ([]inventory.Movement, error) {
	var rows []models.StockMovementModel
	query := paginate(r.filtered(ctx, filter).Preload("Item"), filter.Filter, MovementSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	movements := make([]inventory.Movement, len(rows))
	for i := range rows {
		movements[i] = rows[i].ToDomain()
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormStockMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormStockMovementRepository) filtered(ctx context.Context, filter inventory.MovementFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.StockMovementModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "reference", "notes")
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	return query
}

// CountByItem counts the movements recorded for an item
func (r *GormStockMovementRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

var _ inventory.MovementRepository = (*GormStockMovementRepository)(nil)
