package inventory

import (
	"context"
	"testing"

	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter inventory.ItemFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, branchID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, branchID, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemRepository) Valuation(ctx context.Context, scope shared.Scope) ([]inventory.CategoryValuation, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.CategoryValuation), args.Error(1)
}

func (m *MockItemRepository) CountLowStock(ctx context.Context, scope shared.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, mv *inventory.Movement) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMovementRepository) FindAll(ctx context.Context, filter inventory.MovementFilter) ([]inventory.Movement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

func (m *MockMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type inventoryFixture struct {
	svc       *InventoryService
	items     *MockItemRepository
	movements *MockMovementRepository
	publisher *capturePublisher
	actor     shared.Actor
}

func newInventoryFixture() *inventoryFixture {
	branchID := uuid.New()
	f := &inventoryFixture{
		items:     new(MockItemRepository),
		movements: new(MockMovementRepository),
		publisher: &capturePublisher{},
		actor:     shared.Actor{UserID: uuid.New(), Username: "clerk", BranchID: &branchID},
	}
	f.svc = NewInventoryService(f.items, f.movements, NewNoOpTransactionScope(f.items, f.movements), f.publisher, nil)
	return f
}

func (f *inventoryFixture) stockedItem(t *testing.T, qty, reorder int64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(*f.actor.BranchID, f.actor.UserID, inventory.ItemInput{
		SKU:          "INK-01",
		Name:         "Printer Ink",
		Category:     "Supplies",
		UnitCost:     decimal.NewFromInt(12),
		ReorderLevel: decimal.NewFromInt(reorder),
	})
	require.NoError(t, err)
	if qty > 0 {
		_, err = item.ApplyMovement(uuid.Nil, inventory.MovementInput{Type: inventory.MovementIn, Quantity: decimal.NewFromInt(qty)})
		require.NoError(t, err)
	}
	item.RestoreVersion(1)
	item.ClearDomainEvents()
	return item
}

func TestInventoryService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newInventoryFixture()
		f.items.On("ExistsBySKU", ctx, *f.actor.BranchID, "INK-02", (*uuid.UUID)(nil)).Return(false, nil)
		f.items.On("Save", ctx, mock.AnythingOfType("*inventory.Item")).Return(nil)

		resp, err := f.svc.CreateItem(ctx, f.actor, CreateItemRequest{
			SKU: "ink-02", Name: "Cyan Ink", UnitCost: decimal.NewFromInt(9), ReorderLevel: decimal.NewFromInt(3),
		})

		require.NoError(t, err)
		assert.Equal(t, "INK-02", resp.SKU)
		assert.True(t, resp.Quantity.IsZero())
		assert.True(t, resp.IsLowStock)
		assert.True(t, resp.IsActive)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		f := newInventoryFixture()
		f.items.On("ExistsBySKU", ctx, *f.actor.BranchID, "INK-02", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := f.svc.CreateItem(ctx, f.actor, CreateItemRequest{SKU: "INK-02", Name: "Cyan Ink"})

		assert.ErrorIs(t, err, inventory.ErrDuplicateSKU)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("other branch is forbidden for accountants", func(t *testing.T) {
		f := newInventoryFixture()
		other := uuid.New()

		_, err := f.svc.CreateItem(ctx, f.actor, CreateItemRequest{BranchID: &other, SKU: "X", Name: "X"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestInventoryService_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("out movement crossing reorder level publishes StockLow", func(t *testing.T) {
		f := newInventoryFixture()
		item := f.stockedItem(t, 10, 5)
		f.items.On("FindByIDForUpdate", ctx, f.actor.Scope(), item.ID).Return(item, nil)
		f.items.On("Save", ctx, item).Return(nil)
		var created *inventory.Movement
		f.movements.On("Create", ctx, mock.AnythingOfType("*inventory.Movement")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*inventory.Movement) }).
			Return(nil)

		result, err := f.svc.RecordMovement(ctx, f.actor, item.ID, RecordMovementRequest{
			Type: "OUT", Quantity: decimal.NewFromInt(6), Date: "2025-04-02", Reference: "REQ-9",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "-6", result.Movement.Quantity.String())
		assert.Equal(t, "4", result.Movement.BalanceAfter.String())
		assert.Equal(t, "2025-04-02", result.Movement.Date)
		assert.Equal(t, "INK-01", result.Movement.ItemSKU)
		assert.True(t, result.Item.IsLowStock)
		assert.Equal(t, 2, result.Item.Version)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, inventory.EventTypeStockLow, f.publisher.events[0].EventType())
	})

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		f := newInventoryFixture()
		item := f.stockedItem(t, 2, 0)
		f.items.On("FindByIDForUpdate", ctx, f.actor.Scope(), item.ID).Return(item, nil)

		_, err := f.svc.RecordMovement(ctx, f.actor, item.ID, RecordMovementRequest{Type: "OUT", Quantity: decimal.NewFromInt(3)})

		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newInventoryFixture()
		_, err := f.svc.RecordMovement(ctx, f.actor, uuid.New(), RecordMovementRequest{Type: "IN", Quantity: decimal.NewFromInt(1), Date: "02/04/2025"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInventoryService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	item := f.stockedItem(t, 0, 0)
	f.items.On("FindByID", ctx, f.actor.Scope(), item.ID).Return(item, nil)

	f.movements.On("CountByItem", ctx, item.ID).Return(int64(3), nil).Once()
	err := f.svc.DeleteItem(ctx, f.actor.Scope(), item.ID)
	assert.ErrorIs(t, err, inventory.ErrItemHasMovements)
	f.items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	f.movements.On("CountByItem", ctx, item.ID).Return(int64(0), nil).Once()
	f.items.On("Delete", ctx, item.ID).Return(nil)
	require.NoError(t, f.svc.DeleteItem(ctx, f.actor.Scope(), item.ID))
}

func TestInventoryService_UpdateItem_Deactivate(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	item := f.stockedItem(t, 5, 0)
	f.items.On("FindByID", ctx, f.actor.Scope(), item.ID).Return(item, nil)
	f.items.On("Save", ctx, item).Return(nil)
	inactive := false
	price := decimal.RequireFromString("19.999")

	resp, err := f.svc.UpdateItem(ctx, f.actor.Scope(), item.ID, UpdateItemRequest{SalePrice: &price, IsActive: &inactive})

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.Equal(t, "20", resp.SalePrice.String())
	assert.Equal(t, "INK-01", resp.SKU)
	f.items.AssertNotCalled(t, "ExistsBySKU", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_Valuation(t *testing.T) {
	ctx := context.Background()
	f := newInventoryFixture()
	scope := shared.AllBranches()
	f.items.On("Valuation", ctx, scope).Return([]inventory.CategoryValuation{
		{Category: "Supplies", ItemCount: 3, Quantity: decimal.NewFromInt(40), Value: decimal.RequireFromString("480.004")},
		{Category: "Furniture", ItemCount: 1, Quantity: decimal.NewFromInt(2), Value: decimal.NewFromInt(900)},
	}, nil)
	f.items.On("CountLowStock", ctx, scope).Return(int64(2), nil)

	resp, err := f.svc.Valuation(ctx, scope)

	require.NoError(t, err)
	assert.Equal(t, "1380", resp.TotalValue.String())
	assert.Equal(t, int64(4), resp.TotalItems)
	assert.Equal(t, int64(2), resp.LowStockCount)
}

func TestInventoryService_ListMovements_InvertedRange(t *testing.T) {
	f := newInventoryFixture()
	_, _, err := f.svc.ListMovements(context.Background(), f.actor.Scope(), MovementListFilter{From: "2025-05-01", To: "2025-04-01"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
