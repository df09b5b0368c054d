package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact visible in the scope
func (r *GormContactRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*contact.Contact, error) {
	var model models.ContactModel
	query := scoped(r.db.WithContext(ctx), scope, "branch_id")
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByNormalizedName finds the contact of a branch with the given normalized name
func (r *GormContactRepository) FindByNormalizedName(ctx context.Context, branchID uuid.UUID, normalized string) (*contact.Contact, error) {
	var model models.ContactModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND normalized_name = ?", branchID, normalized).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists contacts
func (r *GormContactRepository) FindAll(ctx context.Context, filter contact.Filter) ([]contact.Contact, error) {
	var rows []models.ContactModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, ContactSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]contact.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, nil
}

// Count counts contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter contact.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormContactRepository) filtered(ctx context.Context, filter contact.Filter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "name", "phone", "email", "tax_number")
	switch filter.Type {
	case "":
	case contact.TypeCustomer, contact.TypeSupplier:
		// BOTH contacts qualify as either side
		query = query.Where("type IN ?", []string{string(filter.Type), string(contact.TypeBoth)})
	default:
		query = query.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	return saveAggregate(ctx, r.db, models.ContactModelFromDomain(c), c.ID, &c.BaseAggregateRoot)
}

// Delete removes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ContactModel{}, id)
}

var _ contact.Repository = (*GormContactRepository)(nil)
