package notification

import (
	"context"
	"fmt"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier stores notifications, skipping duplicates
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) (bool, error)
}

// SettlementHandler turns payroll and settlement events into branch broadcasts
type SettlementHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewSettlementHandler creates the handler
func NewSettlementHandler(notifier Notifier, logger *zap.Logger) *SettlementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *SettlementHandler) EventTypes() []string {
	return []string{
		payroll.EventTypePayrollPaid,
		finance.EventTypePayablePaid,
		finance.EventTypeReceivablePaid,
	}
}

// Handle builds and stores the notification for one event. Store failures are
// logged and swallowed so the publishing operation is unaffected.
func (h *SettlementHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	n, err := h.build(event)
	if err != nil {
		h.logger.Error("cannot build notification",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}
	if _, err := h.notifier.Notify(ctx, n); err != nil {
		h.logger.Error("failed to store notification",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
	return nil
}

func (h *SettlementHandler) build(event shared.DomainEvent) (*notification.Notification, error) {
	branchID := event.BranchID()
	target := notification.Target{BranchID: &branchID}
	entityID := event.AggregateID()
	// One notification per event.
	key := fmt.Sprintf("%s:%s", event.EventType(), event.EventID())

	switch e := event.(type) {
	case *payroll.PayrollPaidEvent:
		return notification.New(notification.TypePayrollPaid, target,
			notification.Subject{EntityType: "payroll_record", EntityID: &entityID},
			fmt.Sprintf("Payroll paid: %s (%s)", e.EmployeeName, e.Period),
			fmt.Sprintf("Net pay of %s was booked as an expense.", e.NetPay.StringFixed(2)),
			key)
	case *finance.PayablePaidEvent:
		return notification.New(notification.TypeSystem, target,
			notification.Subject{EntityType: "account_payable", EntityID: &entityID},
			fmt.Sprintf("Payable %s settled", e.Number),
			fmt.Sprintf("%s to %s is fully paid.", e.Amount.StringFixed(2), e.ContactName),
			key)
	case *finance.ReceivablePaidEvent:
		return notification.New(notification.TypeSystem, target,
			notification.Subject{EntityType: "account_receivable", EntityID: &entityID},
			fmt.Sprintf("Receivable %s collected", e.Number),
			fmt.Sprintf("%s from %s is fully received.", e.Amount.StringFixed(2), e.ContactName),
			key)
	}
	return nil, fmt.Errorf("unexpected event type: %s", event.EventType())
}

var _ shared.EventHandler = (*SettlementHandler)(nil)
