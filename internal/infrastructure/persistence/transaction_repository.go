package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction visible in the scope
func (r *GormTransactionRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	if err := scoped(r.db.WithContext(ctx), scope, "branch_id").First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindBySource finds the transaction generated by a payment, receipt or payroll record
func (r *GormTransactionRepository) FindBySource(ctx context.Context, source finance.TransactionSource, sourceID uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	err := r.db.WithContext(ctx).
		Where("source = ? AND source_id = ?", source, sourceID).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists transactions, newest first by default
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	var rows []models.TransactionModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, TransactionSortFields, "date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	txs := make([]finance.Transaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormTransactionRepository) filtered(ctx context.Context, filter finance.TransactionFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "description", "category", "reference")
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	return query
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, t *finance.Transaction) error {
	return saveAggregate(ctx, r.db, models.TransactionModelFromDomain(t), t.ID, &t.BaseAggregateRoot)
}

// Delete removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.TransactionModel{}, id)
}

// Categories returns the distinct categories in use, optionally for one type
func (r *GormTransactionRepository) Categories(ctx context.Context, scope shared.Scope, txType finance.TransactionType) ([]string, error) {
	var categories []string
	query := scoped(r.db.WithContext(ctx).Model(&models.TransactionModel{}), scope, "branch_id")
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	err := query.Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	return categories, err
}

type categoryTotalRow struct {
	Type     string
	Category string
	Total    decimal.Decimal
	Count    int64
}

// SumByCategory totals amounts per type and category
func (r *GormTransactionRepository) SumByCategory(ctx context.Context, filter finance.TransactionFilter) ([]finance.CategoryTotal, error) {
	var rows []categoryTotalRow
	err := r.filtered(ctx, filter).
		Select("type, category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type, category").
		Order("type ASC, total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.CategoryTotal{
			Type:     finance.TransactionType(row.Type),
			Category: row.Category,
			Total:    row.Total,
			Count:    row.Count,
		}
	}
	return totals, nil
}

type periodTotalRow struct {
	Period  string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Trend buckets income and expense by day or month
func (r *GormTransactionRepository) Trend(ctx context.Context, filter finance.TransactionFilter, interval string) ([]finance.PeriodTotal, error) {
	period := periodExpr(r.db, "date", interval)
	var rows []periodTotalRow
	err := r.filtered(ctx, filter).
		Select(period+" AS period, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense",
			finance.TransactionTypeIncome, finance.TransactionTypeExpense).
		Group(period).
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make([]finance.PeriodTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.PeriodTotal{Period: row.Period, Income: row.Income, Expense: row.Expense}
	}
	return totals, nil
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
