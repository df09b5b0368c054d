package notification

import (
	"context"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows a viewer's notification list
type Filter struct {
	shared.Filter
	Viewer     Viewer
	UnreadOnly bool
	Type       Type
}

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter Filter) ([]Notification, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	CountUnread(ctx context.Context, viewer Viewer) (int64, error)
	// Create inserts unless a row with the same dedupe key exists. It reports whether a row was written.
	Create(ctx context.Context, n *Notification) (bool, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, viewer Viewer) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
