package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockStockAlertNotifier records alerts for assertions
type MockStockAlertNotifier struct {
	mu     sync.Mutex
	alerts []StockAlert
	err    error
}

func (n *MockStockAlertNotifier) SendStockAlert(_ context.Context, alert StockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *MockStockAlertNotifier) GetAlerts() []StockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]StockAlert, len(n.alerts))
	copy(result, n.alerts)
	return result
}

type otherEvent struct {
	shared.BaseDomainEvent
}

func stockLowEvent(branchID, itemID uuid.UUID, qty int64) *inventory.StockLowEvent {
	return &inventory.StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(inventory.EventTypeStockLow, inventory.AggregateTypeInventoryItem, itemID, branchID),
		SKU:             "PAPER-A4",
		Name:            "A4 Paper",
		Quantity:        decimal.NewFromInt(qty),
		ReorderLevel:    decimal.NewFromInt(10),
	}
}

func TestStockLowHandler_Handle(t *testing.T) {
	branchID := uuid.New()
	itemID := uuid.New()

	t.Run("low stock", func(t *testing.T) {
		notifier := &MockStockAlertNotifier{}
		handler := NewStockLowHandler(zaptest.NewLogger(t)).WithNotifier(notifier)

		require.NoError(t, handler.Handle(context.Background(), stockLowEvent(branchID, itemID, 4)))

		alerts := notifier.GetAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "low_stock", alerts[0].AlertType)
		assert.Equal(t, branchID, alerts[0].BranchID)
		assert.Equal(t, itemID, alerts[0].ItemID)
		assert.Equal(t, "4", alerts[0].Quantity)
		assert.Equal(t, "10", alerts[0].ReorderLevel)
	})

	t.Run("out of stock", func(t *testing.T) {
		notifier := &MockStockAlertNotifier{}
		handler := NewStockLowHandler(zaptest.NewLogger(t)).WithNotifier(notifier)

		require.NoError(t, handler.Handle(context.Background(), stockLowEvent(branchID, itemID, 0)))

		alerts := notifier.GetAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "out_of_stock", alerts[0].AlertType)
	})

	t.Run("notifier failure is swallowed", func(t *testing.T) {
		notifier := &MockStockAlertNotifier{err: errors.New("db down")}
		handler := NewStockLowHandler(zaptest.NewLogger(t)).WithNotifier(notifier)

		assert.NoError(t, handler.Handle(context.Background(), stockLowEvent(branchID, itemID, 1)))
		assert.Len(t, notifier.GetAlerts(), 1)
	})

	t.Run("wrong event type", func(t *testing.T) {
		handler := NewStockLowHandler(nil)
		wrong := &otherEvent{shared.NewBaseDomainEvent("Other", "Other", uuid.New(), branchID)}

		err := handler.Handle(context.Background(), wrong)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}

func TestStockLowHandler_EventTypes(t *testing.T) {
	assert.Equal(t, []string{inventory.EventTypeStockLow}, NewStockLowHandler(nil).EventTypes())
}
