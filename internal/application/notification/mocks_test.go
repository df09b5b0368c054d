package notification

import (
	"context"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/notification"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter notification.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, filter notification.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, viewer notification.Viewer) (int64, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, n *notification.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, viewer notification.Viewer) (int64, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// stubPayables and stubReceivables only serve FindOpen
type stubPayables struct {
	finance.AccountPayableRepository
	open []finance.AccountPayable
}

func (s *stubPayables) FindOpen(context.Context, shared.Scope, *time.Time) ([]finance.AccountPayable, error) {
	return s.open, nil
}

type stubReceivables struct {
	finance.AccountReceivableRepository
	open []finance.AccountReceivable
}

func (s *stubReceivables) FindOpen(context.Context, shared.Scope, *time.Time) ([]finance.AccountReceivable, error) {
	return s.open, nil
}

// memoryNotifier keeps notifications keyed by dedupe key
type memoryNotifier struct {
	byKey map[string]*notification.Notification
}

func newMemoryNotifier() *memoryNotifier {
	return &memoryNotifier{byKey: make(map[string]*notification.Notification)}
}

func (m *memoryNotifier) Notify(_ context.Context, n *notification.Notification) (bool, error) {
	if _, ok := m.byKey[n.DedupeKey]; ok {
		return false, nil
	}
	m.byKey[n.DedupeKey] = n
	return true, nil
}

func (m *memoryNotifier) types() map[notification.Type]int {
	out := make(map[notification.Type]int)
	for _, n := range m.byKey {
		out[n.Type]++
	}
	return out
}

func date(s string) time.Time {
	t, err := time.Parse(shared.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func payable(t *testing.T, branchID uuid.UUID, number, due string) finance.AccountPayable {
	t.Helper()
	d := date(due)
	ap, err := finance.NewAccountPayable(branchID, uuid.New(), number, finance.DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromInt(400),
		IssueDate: date("2025-01-01"),
		DueDate:   &d,
	})
	require.NoError(t, err)
	ap.ContactName = "Acme Supplies"
	return *ap
}

func receivable(t *testing.T, branchID uuid.UUID, number, due string) finance.AccountReceivable {
	t.Helper()
	d := date(due)
	ar, err := finance.NewAccountReceivable(branchID, uuid.New(), number, finance.DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromInt(250),
		IssueDate: date("2025-01-01"),
		DueDate:   &d,
	})
	require.NoError(t, err)
	ar.ContactName = "Blue Cafe"
	return *ar
}
