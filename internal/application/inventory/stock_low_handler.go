package inventory

import (
	"context"
	"fmt"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockLowHandler handles StockLow events and forwards them as stock alerts
type StockLowHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier delivers stock alerts, e.g. as in-app notifications
type StockAlertNotifier interface {
	SendStockAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	BranchID     uuid.UUID `json:"branch_id"`
	ItemID       uuid.UUID `json:"item_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Quantity     string    `json:"quantity"`
	ReorderLevel string    `json:"reorder_level"`
	AlertType    string    `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewStockLowHandler creates a new handler for StockLow events
func NewStockLowHandler(logger *zap.Logger) *StockLowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLowHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockLowHandler) WithNotifier(notifier StockAlertNotifier) *StockLowHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLow}
}

// Handle processes a StockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.StockLowEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLow),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLow, event.EventType())
	}

	alertType := "low_stock"
	if !lowEvent.Quantity.IsPositive() {
		alertType = "out_of_stock"
	}
	alert := StockAlert{
		BranchID:     event.BranchID(),
		ItemID:       event.AggregateID(),
		SKU:          lowEvent.SKU,
		Name:         lowEvent.Name,
		Quantity:     lowEvent.Quantity.String(),
		ReorderLevel: lowEvent.ReorderLevel.String(),
		AlertType:    alertType,
	}

	h.logger.Warn("stock at or below reorder level",
		zap.String("branch_id", alert.BranchID.String()),
		zap.String("item_id", alert.ItemID.String()),
		zap.String("sku", alert.SKU),
		zap.String("quantity", alert.Quantity),
		zap.String("reorder_level", alert.ReorderLevel),
	)

	if h.notifier == nil {
		return nil
	}
	// A failed alert must not fail the movement that triggered it.
	if err := h.notifier.SendStockAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("item_id", alert.ItemID.String()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockLowHandler)(nil)
