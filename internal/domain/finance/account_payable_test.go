package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayable(t *testing.T, amount int64, due *time.Time) *AccountPayable {
	t.Helper()
	ap, err := NewAccountPayable(uuid.New(), uuid.New(), "AP-20240101-00001", DocumentInput{
		ContactID:   uuid.New(),
		Description: "Invoice 42",
		Amount:      decimal.NewFromInt(amount),
		IssueDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     due,
	})
	require.NoError(t, err)
	return ap
}

func TestNewAccountPayable(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	assert.Equal(t, StatusPending, ap.Status)
	assert.True(t, ap.Outstanding().Equal(decimal.NewFromInt(1000)))
	require.Len(t, ap.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePayableCreated, ap.GetDomainEvents()[0].EventType())

	tests := []struct {
		name string
		in   DocumentInput
	}{
		{"missing contact", DocumentInput{Amount: decimal.NewFromInt(1)}},
		{"zero amount", DocumentInput{ContactID: uuid.New()}},
		{"due before issue", DocumentInput{
			ContactID: uuid.New(),
			Amount:    decimal.NewFromInt(1),
			IssueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			DueDate:   ptrTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccountPayable(uuid.New(), uuid.New(), "AP-1", tt.in)
			assert.Error(t, err)
		})
	}
}

func TestAccountPayable_RecordPayment(t *testing.T) {
	ap := newTestPayable(t, 1000, nil)
	ap.ClearDomainEvents()

	p, err := ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	assert.Equal(t, ap.ID, p.PayableID)
	assert.Equal(t, PaymentMethodCash, p.Method)
	assert.Equal(t, StatusPartial, ap.Status)
	assert.Nil(t, ap.PaidAt)

	_, err = ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(601)})
	assert.ErrorIs(t, err, ErrPaymentExceedsOutstanding)

	_, err = ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(600), Method: PaymentMethodBankTransfer})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, ap.Status)
	assert.NotNil(t, ap.PaidAt)
	assert.True(t, ap.Outstanding().IsZero())

	types := make([]string, 0)
	for _, e := range ap.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypePayablePaymentRecorded, EventTypePayablePaymentRecorded, EventTypePayablePaid}, types)

	_, err = ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrDocumentClosed)
}

func TestAccountPayable_RemovePaymentReopens(t *testing.T) {
	ap := newTestPayable(t, 100, nil)
	p, err := ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, ap.Status)

	_, err = ap.RemovePayment(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, ap.Status)
	assert.Nil(t, ap.PaidAt)
	assert.Empty(t, ap.Payments)

	_, err = ap.RemovePayment(uuid.New())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestAccountPayable_CancelAndDelete(t *testing.T) {
	ap := newTestPayable(t, 100, nil)
	_, err := ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.ErrorIs(t, ap.Cancel(), ErrDocumentHasPayments)
	assert.ErrorIs(t, ap.CanDelete(), ErrDocumentHasPayments)

	fresh := newTestPayable(t, 100, nil)
	require.NoError(t, fresh.Cancel())
	assert.Equal(t, StatusCancelled, fresh.Status)
	assert.ErrorIs(t, fresh.Cancel(), ErrDocumentClosed)
	assert.ErrorIs(t, fresh.Update(DocumentInput{Amount: decimal.NewFromInt(5)}), ErrDocumentClosed)
}

func TestAccountPayable_Update(t *testing.T) {
	ap := newTestPayable(t, 100, nil)
	_, err := ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)

	assert.ErrorIs(t, ap.Update(DocumentInput{Amount: decimal.NewFromInt(50)}), ErrAmountBelowSettled)
	require.NoError(t, ap.Update(DocumentInput{Amount: decimal.NewFromInt(60), Description: "adjusted"}))
	assert.Equal(t, StatusPaid, ap.Status)
	assert.Equal(t, "adjusted", ap.Description)
}

func TestAccountPayable_Overdue(t *testing.T) {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	ap := newTestPayable(t, 100, &due)

	assert.False(t, ap.IsOverdue(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)))
	assert.True(t, ap.IsOverdue(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5, ap.DaysOverdue(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))

	_, err := ap.RecordPayment(PaymentInput{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.False(t, ap.IsOverdue(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
