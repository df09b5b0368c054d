package persistence

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// visible restricts a query to the rows a viewer can see: rows addressed to the viewer,
// and broadcasts that are global or for the viewer's branch. Admins see every broadcast.
func visible(query *gorm.DB, v notification.Viewer) *gorm.DB {
	if v.IsAdmin {
		return query.Where("(user_id = ? OR user_id IS NULL)", v.UserID)
	}
	if v.BranchID == nil {
		return query.Where("(user_id = ? OR (user_id IS NULL AND branch_id IS NULL))", v.UserID)
	}
	return query.Where(
		"(user_id = ? OR (user_id IS NULL AND (branch_id IS NULL OR branch_id = ?)))",
		v.UserID, *v.BranchID,
	)
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists the viewer's notifications, newest first unless the filter says otherwise
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, error) {
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "created_at", "desc"
	}
	var rows []models.NotificationModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, NotificationSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts the viewer's notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter notification.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormNotificationRepository) filtered(ctx context.Context, filter notification.Filter) *gorm.DB {
	query := visible(r.db.WithContext(ctx).Model(&models.NotificationModel{}), filter.Viewer)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	return searchAny(query, filter.Search, "title", "message")
}

// CountUnread counts unread notifications visible to the viewer
func (r *GormNotificationRepository) CountUnread(ctx context.Context, viewer notification.Viewer) (int64, error) {
	var count int64
	err := visible(r.db.WithContext(ctx).Model(&models.NotificationModel{}), viewer).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// Create inserts a notification, skipping it when the dedupe key is already stored
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedupe_key"}}, DoNothing: true}).
		Create(models.NotificationModelFromDomain(n))
	if result.Error != nil {
		return false, translateWriteError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Save updates the read state of a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{"is_read": n.IsRead, "read_at": n.ReadAt, "updated_at": n.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mapNotFound(gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkAllRead marks every unread notification visible to the viewer as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, viewer notification.Viewer) (int64, error) {
	now := time.Now()
	result := visible(r.db.WithContext(ctx).Model(&models.NotificationModel{}), viewer).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": now, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.NotificationModel{}, id)
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
