package persistence

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const receivableTable = "account_receivables"

// GormAccountReceivableRepository implements finance.AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

func preloadReceivableReceipts(db *gorm.DB) *gorm.DB {
	return db.Order("receipt_date ASC, created_at ASC")
}

// FindByID finds a receivable with its contact name and receipts
func (r *GormAccountReceivableRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(scoped(r.db.WithContext(ctx), scope, "branch_id"), id)
}

// FindByIDForUpdate finds a receivable and locks its row for the rest of the transaction
func (r *GormAccountReceivableRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(forUpdate(scoped(r.db.WithContext(ctx), scope, "branch_id")), id)
}

func (r *GormAccountReceivableRepository) find(query *gorm.DB, id uuid.UUID) (*finance.AccountReceivable, error) {
	var model models.AccountReceivableModel
	err := query.
		Preload("Contact").
		Preload("Receipts", preloadReceivableReceipts).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists receivables without receipts
func (r *GormAccountReceivableRepository) FindAll(ctx context.Context, filter finance.DocumentFilter) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	query := r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).Preload("Contact")
	query = applyDocumentFilter(query, filter, receivableTable)
	query = qualifiedPaginate(query, filter.Filter, ReceivableSortFields, "issue_date", receivableTable)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	receivables := make([]finance.AccountReceivable, len(rows))
	for i := range rows {
		receivables[i] = *rows[i].ToDomain()
	}
	return receivables, nil
}

// Count counts receivables matching the filter
func (r *GormAccountReceivableRepository) Count(ctx context.Context, filter finance.DocumentFilter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}), filter, receivableTable)
	err := query.Count(&count).Error
	return count, err
}

// FindOpen returns PENDING and PARTIAL receivables, earliest due first
func (r *GormAccountReceivableRepository) FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	query := openDocuments(r.db.WithContext(ctx).Preload("Contact"), scope, dueBefore)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	receivables := make([]finance.AccountReceivable, len(rows))
	for i := range rows {
		receivables[i] = *rows[i].ToDomain()
	}
	return receivables, nil
}

// Save creates or updates the receivable row; receipts are written through AddReceipt
func (r *GormAccountReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	return saveAggregate(ctx, r.db, models.AccountReceivableModelFromDomain(ar), ar.ID, &ar.BaseAggregateRoot)
}

// Delete removes a receivable
func (r *GormAccountReceivableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.AccountReceivableModel{}, id)
}

// AddReceipt inserts a receivable receipt
func (r *GormAccountReceivableRepository) AddReceipt(ctx context.Context, p *finance.ReceivableReceipt) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.ReceivableReceiptModelFromDomain(p)).Error)
}

// DeleteReceipt removes a receivable receipt
func (r *GormAccountReceivableRepository) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ReceivableReceiptModel{}, id)
}

// Summary totals open receivables as of a date
func (r *GormAccountReceivableRepository) Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*finance.DocumentSummary, error) {
	return documentSummary(ctx, r.db, receivableTable, "received_amount", scope, asOf, windowDays)
}

// NextNumber allocates the next AR number for the date
func (r *GormAccountReceivableRepository) NextNumber(ctx context.Context, date time.Time) (string, error) {
	return nextDocumentNumber(ctx, r.db, ReceivablePrefix, date)
}

// CountByContact counts receivables of a contact regardless of status
func (r *GormAccountReceivableRepository) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error
	return count, err
}

// OutstandingByContact sums what a contact still owes
func (r *GormAccountReceivableRepository) OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	return outstandingForContact(ctx, r.db, receivableTable, "received_amount", contactID)
}

var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
