package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Type:     TransactionTypeExpense,
		Category: "Rent",
		Amount:   decimal.NewFromFloat(1250.456),
		Date:     time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}
}

func TestNewTransaction(t *testing.T) {
	branchID := uuid.New()
	userID := uuid.New()

	t.Run("valid expense", func(t *testing.T) {
		tx, err := NewTransaction(branchID, userID, validTransactionInput())
		require.NoError(t, err)
		assert.Equal(t, branchID, tx.BranchID)
		assert.Equal(t, "1250.46", tx.Amount.StringFixed(2))
		assert.Equal(t, PaymentMethodCash, tx.PaymentMethod)
		assert.Equal(t, SourceManual, tx.Source)
		assert.Equal(t, 0, tx.Date.Hour())
		assert.True(t, tx.SignedAmount().IsNegative())
		require.Len(t, tx.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTransactionRecorded, tx.GetDomainEvents()[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(in *TransactionInput)
	}{
		{"invalid type", func(in *TransactionInput) { in.Type = "TRANSFER" }},
		{"missing category", func(in *TransactionInput) { in.Category = " " }},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-5) }},
		{"missing date", func(in *TransactionInput) { in.Date = time.Time{} }},
		{"bad payment method", func(in *TransactionInput) { in.PaymentMethod = "BITCOIN" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTransactionInput()
			tt.mutate(&in)
			_, err := NewTransaction(branchID, userID, in)
			assert.Error(t, err)
		})
	}

	t.Run("missing branch", func(t *testing.T) {
		_, err := NewTransaction(uuid.Nil, userID, validTransactionInput())
		assert.Error(t, err)
	})
}

func TestTransaction_SystemGeneratedIsLocked(t *testing.T) {
	tx, err := NewSystemTransaction(uuid.New(), uuid.New(), validTransactionInput(), SourcePayroll, uuid.New())
	require.NoError(t, err)

	assert.True(t, tx.IsSystemGenerated())
	assert.ErrorIs(t, tx.Update(validTransactionInput()), ErrTransactionLocked)
	assert.ErrorIs(t, tx.CanDelete(), ErrTransactionLocked)
}

func TestTransaction_Update(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), uuid.New(), validTransactionInput())
	require.NoError(t, err)
	tx.RestoreVersion(1)

	in := validTransactionInput()
	in.Type = TransactionTypeIncome
	in.Category = "Sales"
	in.Amount = decimal.NewFromInt(99)
	require.NoError(t, tx.Update(in))

	assert.Equal(t, TransactionTypeIncome, tx.Type)
	assert.Equal(t, "Sales", tx.Category)
	assert.Equal(t, 2, tx.Version)
	assert.True(t, tx.SignedAmount().IsPositive())
}
