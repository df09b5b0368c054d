package persistence

import (
	"context"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSavedReportRepository implements report.SavedReportRepository using GORM
type GormSavedReportRepository struct {
	db *gorm.DB
}

// NewGormSavedReportRepository creates a new GormSavedReportRepository
func NewGormSavedReportRepository(db *gorm.DB) *GormSavedReportRepository {
	return &GormSavedReportRepository{db: db}
}

// FindByID finds a saved report by ID
func (r *GormSavedReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.SavedReport, error) {
	var model models.SavedReportModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindVisible lists the user's own reports and the shared reports inside the scope
func (r *GormSavedReportRepository) FindVisible(ctx context.Context, filter report.SavedReportFilter) ([]report.SavedReport, error) {
	var rows []models.SavedReportModel
	query := paginate(r.visible(ctx, filter), filter.Filter, SavedReportSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]report.SavedReport, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountVisible counts the reports FindVisible would return
func (r *GormSavedReportRepository) CountVisible(ctx context.Context, filter report.SavedReportFilter) (int64, error) {
	var count int64
	err := r.visible(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormSavedReportRepository) visible(ctx context.Context, filter report.SavedReportFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SavedReportModel{})
	if filter.Scope.IsAll() {
		query = query.Where("(created_by = ? OR is_shared = ?)", filter.UserID, true)
	} else {
		query = query.Where(
			"(created_by = ? OR (is_shared = ? AND (branch_id IS NULL OR branch_id = ?)))",
			filter.UserID, true, *filter.Scope.BranchID,
		)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	return searchAny(query, filter.Search, "name", "description")
}

// Save creates or updates a saved report
func (r *GormSavedReportRepository) Save(ctx context.Context, sr *report.SavedReport) error {
	return saveAggregate(ctx, r.db, models.SavedReportModelFromDomain(sr), sr.ID, &sr.BaseAggregateRoot)
}

// Delete removes a saved report
func (r *GormSavedReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.SavedReportModel{}, id)
}

var _ report.SavedReportRepository = (*GormSavedReportRepository)(nil)
