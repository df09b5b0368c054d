package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountReceivable_Lifecycle(t *testing.T) {
	ar, err := NewAccountReceivable(uuid.New(), uuid.New(), "AR-20240101-00001", DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromFloat(300.555),
	})
	require.NoError(t, err)
	assert.Equal(t, "300.56", ar.Amount.StringFixed(2))
	assert.Equal(t, StatusPending, ar.Status)

	r1, err := ar.RecordReceipt(PaymentInput{Amount: decimal.NewFromInt(100), Method: PaymentMethodCard})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, ar.Status)
	assert.Equal(t, PaymentMethodCard, r1.Method)

	_, err = ar.RecordReceipt(PaymentInput{Amount: decimal.NewFromInt(500)})
	assert.ErrorIs(t, err, ErrPaymentExceedsOutstanding)

	_, err = ar.RecordReceipt(PaymentInput{Amount: ar.Outstanding()})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, ar.Status)
	assert.NotNil(t, ar.PaidAt)

	last := ar.GetDomainEvents()[len(ar.GetDomainEvents())-1]
	assert.Equal(t, EventTypeReceivablePaid, last.EventType())

	_, err = ar.RemoveReceipt(r1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, ar.Status)
	assert.ErrorIs(t, ar.Cancel(), ErrDocumentHasPayments)
}

func TestAccountReceivable_InvalidMethod(t *testing.T) {
	ar, err := NewAccountReceivable(uuid.New(), uuid.New(), "AR-1", DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = ar.RecordReceipt(PaymentInput{Amount: decimal.NewFromInt(1), Method: "BARTER"})
	assert.Error(t, err)
	assert.True(t, ar.ReceivedAmount.IsZero())
}

func TestAccountReceivable_OverdueOnlyWhileOpen(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ar, err := NewAccountReceivable(uuid.New(), uuid.New(), "AR-1", DocumentInput{
		ContactID: uuid.New(),
		Amount:    decimal.NewFromInt(10),
		IssueDate: due,
		DueDate:   &due,
	})
	require.NoError(t, err)

	later := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, ar.IsOverdue(later))
	require.NoError(t, ar.Cancel())
	assert.False(t, ar.IsOverdue(later))
	assert.Equal(t, 0, ar.DaysOverdue(later))
}
