package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDebtRepository implements finance.DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

func preloadDebtPayments(db *gorm.DB) *gorm.DB {
	return db.Order("payment_date ASC, created_at ASC")
}

// FindByID finds a debt with its payments
func (r *GormDebtRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Debt, error) {
	return r.find(scoped(r.db.WithContext(ctx), scope, "branch_id"), id)
}

// FindByIDForUpdate finds a debt and locks its row for the rest of the transaction
func (r *GormDebtRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Debt, error) {
	return r.find(forUpdate(scoped(r.db.WithContext(ctx), scope, "branch_id")), id)
}

func (r *GormDebtRepository) find(query *gorm.DB, id uuid.UUID) (*finance.Debt, error) {
	var model models.DebtModel
	if err := query.Preload("Payments", preloadDebtPayments).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists debts without their payments
func (r *GormDebtRepository) FindAll(ctx context.Context, filter finance.DebtFilter) ([]finance.Debt, error) {
	var rows []models.DebtModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, DebtSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	debts := make([]finance.Debt, len(rows))
	for i := range rows {
		debts[i] = *rows[i].ToDomain()
	}
	return debts, nil
}

// Count counts debts matching the filter
func (r *GormDebtRepository) Count(ctx context.Context, filter finance.DebtFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormDebtRepository) filtered(ctx context.Context, filter finance.DebtFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.DebtModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "creditor_name", "description")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Migrated != nil {
		if *filter.Migrated {
			query = query.Where("migrated_at IS NOT NULL")
		} else {
			query = query.Where("migrated_at IS NULL")
		}
	}
	return query
}

// FindUnmigrated returns debts not yet moved to payables, oldest first, with payments loaded
func (r *GormDebtRepository) FindUnmigrated(ctx context.Context, scope shared.Scope) ([]finance.Debt, error) {
	var rows []models.DebtModel
	err := scoped(r.db.WithContext(ctx), scope, "branch_id").
		Preload("Payments", preloadDebtPayments).
		Where("migrated_at IS NULL").
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	debts := make([]finance.Debt, len(rows))
	for i := range rows {
		debts[i] = *rows[i].ToDomain()
	}
	return debts, nil
}

// Save creates or updates a debt row; payments are written through AddPayment
func (r *GormDebtRepository) Save(ctx context.Context, d *finance.Debt) error {
	return saveAggregate(ctx, r.db, models.DebtModelFromDomain(d), d.ID, &d.BaseAggregateRoot)
}

// Delete removes a debt
func (r *GormDebtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.DebtModel{}, id)
}

// AddPayment inserts a debt payment
func (r *GormDebtRepository) AddPayment(ctx context.Context, p *finance.DebtPayment) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.DebtPaymentModelFromDomain(p)).Error)
}

// DeletePayment removes a debt payment
func (r *GormDebtRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.DebtPaymentModel{}, id)
}

var _ finance.DebtRepository = (*GormDebtRepository)(nil)
