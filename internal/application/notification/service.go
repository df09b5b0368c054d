package notification

import (
	"context"
	"fmt"
	"time"

	appinventory "github.com/erp/accounting/internal/application/inventory"
	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service reads and writes in-app notifications
type Service struct {
	repo    notification.Repository
	metrics *telemetry.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a notification service
func NewService(repo notification.Repository, metrics *telemetry.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

func viewerOf(actor shared.Actor) notification.Viewer {
	return notification.Viewer{UserID: actor.UserID, BranchID: actor.BranchID, IsAdmin: actor.IsAdmin}
}

// List returns the notifications visible to the actor, newest first
func (s *Service) List(ctx context.Context, actor shared.Actor, filter ListFilter) ([]NotificationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := notification.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		Viewer:     viewerOf(actor),
		UnreadOnly: filter.UnreadOnly,
		Type:       notification.Type(filter.Type),
	}
	list, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToNotificationResponses(list), total, nil
}

// UnreadCount counts the actor's unread notifications
func (s *Service) UnreadCount(ctx context.Context, actor shared.Actor) (*UnreadCountResponse, error) {
	n, err := s.repo.CountUnread(ctx, viewerOf(actor))
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Unread: n}, nil
}

// MarkRead flags one notification as read. Read state lives on the row, so
// reading a broadcast marks it read for everyone who sees it.
func (s *Service) MarkRead(ctx context.Context, actor shared.Actor, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead(s.now())
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead flags every visible unread notification as read
func (s *Service) MarkAllRead(ctx context.Context, actor shared.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, viewerOf(actor))
}

// Delete removes a notification. Users may delete their own rows; broadcasts
// can only be removed by an admin.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	n, err := s.visible(ctx, actor, id)
	if err != nil {
		return err
	}
	if n.IsBroadcast() && !actor.IsAdmin {
		return shared.ErrForbidden
	}
	return s.repo.Delete(ctx, n.ID)
}

// Broadcast publishes a SYSTEM announcement
func (s *Service) Broadcast(ctx context.Context, actor shared.Actor, req BroadcastRequest) (*NotificationResponse, error) {
	if !actor.IsAdmin {
		return nil, shared.ErrForbidden
	}
	n, err := notification.New(notification.TypeSystem,
		notification.Target{BranchID: req.BranchID},
		notification.Subject{},
		req.Title, req.Message, "")
	if err != nil {
		return nil, err
	}
	if _, err := s.create(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info("broadcast sent",
		zap.String("notification_id", n.ID.String()),
		zap.String("by", actor.Username),
	)
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// SendStockAlert turns a stock alert into a LOW_STOCK broadcast for the item's branch.
// One alert per item per day.
func (s *Service) SendStockAlert(ctx context.Context, alert appinventory.StockAlert) error {
	title := fmt.Sprintf("Low stock: %s (%s)", alert.Name, alert.SKU)
	if alert.AlertType == "out_of_stock" {
		title = fmt.Sprintf("Out of stock: %s (%s)", alert.Name, alert.SKU)
	}
	branchID, itemID := alert.BranchID, alert.ItemID
	n, err := notification.New(notification.TypeLowStock,
		notification.Target{BranchID: &branchID},
		notification.Subject{EntityType: "inventory_item", EntityID: &itemID},
		title,
		fmt.Sprintf("Quantity %s is at or below the reorder level of %s.", alert.Quantity, alert.ReorderLevel),
		notification.DedupeKey(notification.TypeLowStock, itemID, s.now()),
	)
	if err != nil {
		return err
	}
	_, err = s.create(ctx, n)
	return err
}

// Notify stores a prepared notification. It reports false when the dedupe key
// was already used.
func (s *Service) Notify(ctx context.Context, n *notification.Notification) (bool, error) {
	return s.create(ctx, n)
}

func (s *Service) create(ctx context.Context, n *notification.Notification) (bool, error) {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return false, err
	}
	if created {
		s.metrics.RecordNotifications(ctx, string(n.Type), 1)
	}
	return created, nil
}

func (s *Service) visible(ctx context.Context, actor shared.Actor, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.VisibleTo(viewerOf(actor)) {
		return nil, shared.ErrNotFound
	}
	return n, nil
}

var _ appinventory.StockAlertNotifier = (*Service)(nil)
