package notification

import (
	"time"

	"github.com/erp/accounting/internal/domain/notification"
	"github.com/google/uuid"
)

// ListFilter narrows the caller's notification list
type ListFilter struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type" binding:"omitempty,oneof=PAYABLE_DUE PAYABLE_OVERDUE RECEIVABLE_DUE RECEIVABLE_OVERDUE LOW_STOCK PAYROLL_PAID SYSTEM"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BroadcastRequest is an admin announcement. A nil branch reaches every branch.
type BroadcastRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Title    string     `json:"title" binding:"required,max=200"`
	Message  string     `json:"message" binding:"max=2000"`
}

// NotificationResponse is the API shape of a notification
type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	BranchID   *uuid.UUID `json:"branch_id,omitempty"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	IsRead     bool       `json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// ToNotificationResponse converts a notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		BranchID:   n.BranchID,
		UserID:     n.UserID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice
func ToNotificationResponses(list []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(list))
	for i := range list {
		out[i] = ToNotificationResponse(&list[i])
	}
	return out
}
