package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/branch"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// branchOwnedTables lists every table whose rows belong to a branch
var branchOwnedTables = []string{
	"users", "contacts", "transactions", "debts", "account_payables", "account_receivables",
	"inventory_items", "employees", "payroll_records",
}

// GormBranchRepository implements branch.Repository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a branch by its code
func (r *GormBranchRepository) FindByCode(ctx context.Context, code string) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists branches
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]branch.Branch, error) {
	var rows []models.BranchModel
	query := r.filtered(ctx, filter)
	if err := paginate(query, filter, BranchSortFields, "code").Find(&rows).Error; err != nil {
		return nil, err
	}
	branches := make([]branch.Branch, len(rows))
	for i := range rows {
		branches[i] = *rows[i].ToDomain()
	}
	return branches, nil
}

// Count counts branches matching the filter
func (r *GormBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormBranchRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.BranchModel{})
	query = searchAny(query, filter.Search, "code", "name")
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

// ExistsByCode checks if a branch code is taken
func (r *GormBranchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BranchModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ExistsByName checks if a branch name is taken, ignoring case
func (r *GormBranchRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BranchModel{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return saveAggregate(ctx, r.db, models.BranchModelFromDomain(b), b.ID, &b.BaseAggregateRoot)
}

// Delete removes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.BranchModel{}, id)
}

// CountReferences counts rows in every branch-owned table that point at the branch
func (r *GormBranchRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	for _, table := range branchOwnedTables {
		var count int64
		if err := r.db.WithContext(ctx).Table(table).Where("branch_id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

var _ branch.Repository = (*GormBranchRepository)(nil)
