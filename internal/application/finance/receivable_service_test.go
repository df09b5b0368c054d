package finance

import (
	"context"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type receivableFixture struct {
	svc       *ReceivableService
	repo      *MockReceivableRepository
	txns      *MockTransactionRepository
	contacts  *MockContactRepository
	publisher *recordingPublisher
	actor     shared.Actor
}

func newReceivableFixture() *receivableFixture {
	branchID := uuid.New()
	f := &receivableFixture{
		repo:      new(MockReceivableRepository),
		txns:      new(MockTransactionRepository),
		contacts:  new(MockContactRepository),
		publisher: &recordingPublisher{},
		actor:     shared.Actor{UserID: uuid.New(), Username: "clerk", BranchID: &branchID},
	}
	scope := NewNoOpTransactionScope(f.txns, nil, nil, f.repo)
	f.svc = NewReceivableService(f.repo, f.contacts, scope, f.publisher, nil, nil)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 31, 15, 0, 0, 0, time.UTC) }
	return f
}

func (f *receivableFixture) existing(t *testing.T, amount int64) *finance.AccountReceivable {
	t.Helper()
	ar, err := finance.NewAccountReceivable(*f.actor.BranchID, uuid.New(), "AR-20250301-00001", finance.DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromInt(amount),
		IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	ar.RestoreVersion(1)
	ar.ClearDomainEvents()
	return ar
}

func TestReceivableService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("customer", func(t *testing.T) {
		f := newReceivableFixture()
		customer := newSupplier(*f.actor.BranchID, contact.TypeCustomer)
		f.contacts.On("FindByID", ctx, shared.BranchScope(*f.actor.BranchID), customer.ID).Return(customer, nil)
		f.repo.On("NextNumber", ctx, mock.Anything).Return("AR-20250331-00001", nil)
		f.repo.On("Save", ctx, mock.AnythingOfType("*finance.AccountReceivable")).Return(nil)

		resp, err := f.svc.Create(ctx, f.actor, CreateDocumentRequest{ContactID: customer.ID, Amount: decimal.NewFromInt(75)})

		require.NoError(t, err)
		assert.Equal(t, "AR-20250331-00001", resp.Number)
		assert.Equal(t, "2025-03-31", resp.IssueDate)
		assert.Equal(t, []string{finance.EventTypeReceivableCreated}, f.publisher.types())
	})

	t.Run("supplier only", func(t *testing.T) {
		f := newReceivableFixture()
		supplier := newSupplier(*f.actor.BranchID, contact.TypeSupplier)
		f.contacts.On("FindByID", ctx, shared.BranchScope(*f.actor.BranchID), supplier.ID).Return(supplier, nil)

		_, err := f.svc.Create(ctx, f.actor, CreateDocumentRequest{ContactID: supplier.ID, Amount: decimal.NewFromInt(75)})
		assert.ErrorIs(t, err, contact.ErrNotACustomer)
	})

	t.Run("unknown contact", func(t *testing.T) {
		f := newReceivableFixture()
		id := uuid.New()
		f.contacts.On("FindByID", ctx, shared.BranchScope(*f.actor.BranchID), id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, f.actor, CreateDocumentRequest{ContactID: id, Amount: decimal.NewFromInt(75)})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "contact_id", de.Details["field"])
	})
}

func TestReceivableService_RecordReceipt_BooksIncome(t *testing.T) {
	f := newReceivableFixture()
	ctx := context.Background()
	ar := f.existing(t, 1000)
	f.repo.On("FindByIDForUpdate", ctx, f.actor.Scope(), ar.ID).Return(ar, nil)
	f.repo.On("Save", ctx, ar).Return(nil)
	f.repo.On("AddReceipt", ctx, mock.AnythingOfType("*finance.ReceivableReceipt")).Return(nil)
	f.txns.On("Save", ctx, mock.AnythingOfType("*finance.Transaction")).Return(nil)

	resp, err := f.svc.RecordReceipt(ctx, f.actor, ar.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(400), Date: "2025-03-30", Method: "CARD", RecordIncome: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", resp.Status)
	assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(600)))
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, "INCOME", resp.Transaction.Type)
	assert.Equal(t, "RECEIVABLE_RECEIPT", resp.Transaction.Source)
	assert.Equal(t, "2025-03-30", resp.Transaction.Date)
	assert.Equal(t, "CARD", resp.Transaction.PaymentMethod)
	assert.True(t, resp.Transaction.IsSystemGenerated)
	assert.Equal(t, resp.Transaction.ID, *resp.Payment.TransactionID)
	assert.ElementsMatch(t, []string{
		finance.EventTypeReceivableReceiptRecorded,
		finance.EventTypeTransactionRecorded,
	}, f.publisher.types())
}

func TestReceivableService_RecordReceipt_ClosedDocument(t *testing.T) {
	f := newReceivableFixture()
	ctx := context.Background()
	ar := f.existing(t, 100)
	require.NoError(t, ar.Cancel())
	f.repo.On("FindByIDForUpdate", ctx, f.actor.Scope(), ar.ID).Return(ar, nil)

	_, err := f.svc.RecordReceipt(ctx, f.actor, ar.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(10), RecordIncome: true})

	assert.ErrorIs(t, err, finance.ErrDocumentClosed)
	f.txns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReceivableService_DeleteReceipt_WithoutTransaction(t *testing.T) {
	f := newReceivableFixture()
	ctx := context.Background()
	ar := f.existing(t, 100)
	r, err := ar.RecordReceipt(finance.PaymentInput{Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)
	f.repo.On("FindByIDForUpdate", ctx, f.actor.Scope(), ar.ID).Return(ar, nil)
	f.repo.On("Save", ctx, ar).Return(nil)
	f.repo.On("DeleteReceipt", ctx, r.ID).Return(nil)

	resp, err := f.svc.DeleteReceipt(ctx, f.actor.Scope(), ar.ID, r.ID)

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, resp.ReceivedAmount.IsZero())
	f.txns.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
