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

const payableTable = "account_payables"

// GormAccountPayableRepository implements finance.AccountPayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

func preloadPayablePayments(db *gorm.DB) *gorm.DB {
	return db.Order("payment_date ASC, created_at ASC")
}

// FindByID finds a payable with its contact name and payments
func (r *GormAccountPayableRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.find(scoped(r.db.WithContext(ctx), scope, "branch_id"), id)
}

// FindByIDForUpdate finds a payable and locks its row for the rest of the transaction
func (r *GormAccountPayableRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.find(forUpdate(scoped(r.db.WithContext(ctx), scope, "branch_id")), id)
}

func (r *GormAccountPayableRepository) find(query *gorm.DB, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	err := query.
		Preload("Contact").
		Preload("Payments", preloadPayablePayments).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payables without payments
func (r *GormAccountPayableRepository) FindAll(ctx context.Context, filter finance.DocumentFilter) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	query := r.db.WithContext(ctx).Model(&models.AccountPayableModel{}).Preload("Contact")
	query = applyDocumentFilter(query, filter, payableTable)
	query = qualifiedPaginate(query, filter.Filter, DocumentSortFields, "issue_date", payableTable)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	payables := make([]finance.AccountPayable, len(rows))
	for i := range rows {
		payables[i] = *rows[i].ToDomain()
	}
	return payables, nil
}

// Count counts payables matching the filter
func (r *GormAccountPayableRepository) Count(ctx context.Context, filter finance.DocumentFilter) (int64, error) {
	var count int64
	query := applyDocumentFilter(r.db.WithContext(ctx).Model(&models.AccountPayableModel{}), filter, payableTable)
	err := query.Count(&count).Error
	return count, err
}

// FindOpen returns PENDING and PARTIAL payables, earliest due first
func (r *GormAccountPayableRepository) FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	query := openDocuments(r.db.WithContext(ctx).Preload("Contact"), scope, dueBefore)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	payables := make([]finance.AccountPayable, len(rows))
	for i := range rows {
		payables[i] = *rows[i].ToDomain()
	}
	return payables, nil
}

// Save creates or updates the payable row; payments are written through AddPayment
func (r *GormAccountPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	return saveAggregate(ctx, r.db, models.AccountPayableModelFromDomain(ap), ap.ID, &ap.BaseAggregateRoot)
}

// Delete removes a payable
func (r *GormAccountPayableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.AccountPayableModel{}, id)
}

// AddPayment inserts a payable payment
func (r *GormAccountPayableRepository) AddPayment(ctx context.Context, p *finance.PayablePayment) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.PayablePaymentModelFromDomain(p)).Error)
}

// DeletePayment removes a payable payment
func (r *GormAccountPayableRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.PayablePaymentModel{}, id)
}

// Summary totals open payables as of a date
func (r *GormAccountPayableRepository) Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*finance.DocumentSummary, error) {
	return documentSummary(ctx, r.db, payableTable, "paid_amount", scope, asOf, windowDays)
}

// NextNumber allocates the next AP number for the date
func (r *GormAccountPayableRepository) NextNumber(ctx context.Context, date time.Time) (string, error) {
	return nextDocumentNumber(ctx, r.db, PayablePrefix, date)
}

// CountByContact counts payables of a contact regardless of status
func (r *GormAccountPayableRepository) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AccountPayableModel{}).
		Where("contact_id = ?", contactID).
		Count(&count).Error
	return count, err
}

// OutstandingByContact sums what is still owed to a contact
func (r *GormAccountPayableRepository) OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	return outstandingForContact(ctx, r.db, payableTable, "paid_amount", contactID)
}

var _ finance.AccountPayableRepository = (*GormAccountPayableRepository)(nil)
