package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	BaseModel
	BranchID   *uuid.UUID `gorm:"type:uuid;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Type       string     `gorm:"type:varchar(40);not null;index"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:text"`
	EntityType string     `gorm:"type:varchar(50)"`
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	DedupeKey  string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	IsRead     bool       `gorm:"not null;default:false;index"`
	ReadAt     *time.Time `gorm:"column:read_at"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.BaseModel.ToDomain(),
		BranchID:   m.BranchID,
		UserID:     m.UserID,
		Type:       notification.Type(m.Type),
		Title:      m.Title,
		Message:    m.Message,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		DedupeKey:  m.DedupeKey,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
	}
}

// NotificationModelFromDomain converts a domain Notification to its model
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		BranchID:   n.BranchID,
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		DedupeKey:  n.DedupeKey,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
	}
	m.FromDomainBaseEntity(n.BaseEntity)
	return m
}
