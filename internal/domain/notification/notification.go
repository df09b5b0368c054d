package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies a notification
type Type string

const (
	TypePayableDue        Type = "PAYABLE_DUE"
	TypePayableOverdue    Type = "PAYABLE_OVERDUE"
	TypeReceivableDue     Type = "RECEIVABLE_DUE"
	TypeReceivableOverdue Type = "RECEIVABLE_OVERDUE"
	TypeLowStock          Type = "LOW_STOCK"
	TypePayrollPaid       Type = "PAYROLL_PAID"
	TypeSystem            Type = "SYSTEM"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypePayableDue, TypePayableOverdue, TypeReceivableDue, TypeReceivableOverdue,
		TypeLowStock, TypePayrollPaid, TypeSystem:
		return true
	}
	return false
}

// Notification is an in-app message addressed to one user or broadcast to a branch
type Notification struct {
	shared.BaseEntity
	BranchID   *uuid.UUID
	UserID     *uuid.UUID
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
	DedupeKey  string
	IsRead     bool
	ReadAt     *time.Time
}

// Target says who a notification is for. A nil UserID broadcasts; a nil BranchID reaches every branch.
type Target struct {
	BranchID *uuid.UUID
	UserID   *uuid.UUID
}

// Subject is the record a notification talks about
type Subject struct {
	EntityType string
	EntityID   *uuid.UUID
}

// New creates an unread notification
func New(t Type, target Target, subject Subject, title, message, dedupeKey string) (*Notification, error) {
	if !t.IsValid() {
		return nil, shared.NewValidationError("type", "unknown notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("title", "title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewValidationError("title", "title must be at most 200 characters")
	}
	if dedupeKey == "" {
		dedupeKey = uuid.NewString()
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		BranchID:   target.BranchID,
		UserID:     target.UserID,
		Type:       t,
		Title:      title,
		Message:    strings.TrimSpace(message),
		EntityType: subject.EntityType,
		EntityID:   subject.EntityID,
		DedupeKey:  dedupeKey,
	}, nil
}

// DedupeKey builds the idempotency key of a reminder: type, entity and day
func DedupeKey(t Type, entityID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", t, entityID, day.Format(shared.DateLayout))
}

// IsBroadcast reports whether the notification has no single recipient
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// MarkRead flags the notification as read. Reading twice keeps the first timestamp.
func (n *Notification) MarkRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &at
	n.Touch()
}

// Viewer is the identity notifications are filtered for
type Viewer struct {
	UserID   uuid.UUID
	BranchID *uuid.UUID
	IsAdmin  bool
}

// VisibleTo applies the visibility rules: own rows, broadcasts of the viewer's branch,
// global broadcasts, and for admins every broadcast.
func (n *Notification) VisibleTo(v Viewer) bool {
	if n.UserID != nil {
		return *n.UserID == v.UserID
	}
	if v.IsAdmin || n.BranchID == nil {
		return true
	}
	return v.BranchID != nil && *v.BranchID == *n.BranchID
}
