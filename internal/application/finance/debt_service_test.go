package finance

import (
	"context"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDebtFixture() (*DebtService, *MockDebtRepository, shared.Actor) {
	branchID := uuid.New()
	repo := new(MockDebtRepository)
	svc := NewDebtService(repo, NewNoOpTransactionScope(nil, repo, nil, nil), nil)
	return svc, repo, shared.Actor{UserID: uuid.New(), Username: "clerk", BranchID: &branchID}
}

func existingDebt(t *testing.T, branchID uuid.UUID, amount int64) *finance.Debt {
	t.Helper()
	d, err := finance.NewDebt(branchID, uuid.New(), "Old Landlord", "rent arrears", decimal.NewFromInt(amount), nil)
	require.NoError(t, err)
	d.RestoreVersion(1)
	return d
}

func TestDebtService_Create(t *testing.T) {
	svc, repo, actor := newDebtFixture()
	ctx := context.Background()
	repo.On("Save", ctx, mock.AnythingOfType("*finance.Debt")).Return(nil)
	due := "2025-09-30"

	resp, err := svc.Create(ctx, actor, CreateDebtRequest{
		CreditorName: "  Old   Landlord ",
		Amount:       decimal.RequireFromString("1200.005"),
		DueDate:      &due,
	})

	require.NoError(t, err)
	assert.Equal(t, *actor.BranchID, resp.BranchID)
	assert.Equal(t, "Old Landlord", resp.CreditorName)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "2025-09-30", *resp.DueDate)
	assert.True(t, resp.Remaining.Equal(resp.Amount))
}

func TestDebtService_AddPayment(t *testing.T) {
	svc, repo, actor := newDebtFixture()
	ctx := context.Background()
	d := existingDebt(t, *actor.BranchID, 500)
	repo.On("FindByIDForUpdate", ctx, actor.Scope(), d.ID).Return(d, nil)
	repo.On("Save", ctx, d).Return(nil)
	repo.On("AddPayment", ctx, mock.AnythingOfType("*finance.DebtPayment")).Return(nil)

	resp, err := svc.AddPayment(ctx, actor, d.ID, AddDebtPaymentRequest{
		Amount: decimal.NewFromInt(200), PaymentDate: "2025-05-02", Notes: "first",
	})

	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_PAID", resp.Status)
	assert.True(t, resp.Remaining.Equal(decimal.NewFromInt(300)))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "2025-05-02", resp.Payments[0].PaymentDate)
	assert.Equal(t, actor.UserID, *resp.Payments[0].CreatedBy)
	assert.Equal(t, 2, resp.Version)
	repo.AssertExpectations(t)
}

func TestDebtService_AddPayment_ExceedsRemaining(t *testing.T) {
	svc, repo, actor := newDebtFixture()
	ctx := context.Background()
	d := existingDebt(t, *actor.BranchID, 500)
	repo.On("FindByIDForUpdate", ctx, actor.Scope(), d.ID).Return(d, nil)

	_, err := svc.AddPayment(ctx, actor, d.ID, AddDebtPaymentRequest{Amount: decimal.NewFromInt(501)})

	assert.ErrorIs(t, err, finance.ErrPaymentExceedsDebt)
	repo.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

func TestDebtService_MigratedDebtIsReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newDebtFixture()
	d := existingDebt(t, *actor.BranchID, 500)
	d.MarkMigrated(uuid.New(), time.Now())
	repo.On("FindByID", ctx, actor.Scope(), d.ID).Return(d, nil)
	repo.On("FindByIDForUpdate", ctx, actor.Scope(), d.ID).Return(d, nil)

	_, err := svc.Update(ctx, actor.Scope(), d.ID, UpdateDebtRequest{CreditorName: "x", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, finance.ErrDebtMigrated)

	_, err = svc.AddPayment(ctx, actor, d.ID, AddDebtPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, finance.ErrDebtMigrated)

	err = svc.Delete(ctx, actor.Scope(), d.ID)
	assert.ErrorIs(t, err, finance.ErrDebtMigrated)

	resp, err := svc.GetByID(ctx, actor.Scope(), d.ID)
	require.NoError(t, err)
	assert.NotNil(t, resp.MigratedAt)
	assert.NotNil(t, resp.MigratedPayableID)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDebtService_DeletePayment(t *testing.T) {
	svc, repo, actor := newDebtFixture()
	ctx := context.Background()
	d := existingDebt(t, *actor.BranchID, 500)
	p, err := d.AddPayment(decimal.NewFromInt(500), time.Now(), "", nil)
	require.NoError(t, err)
	require.Equal(t, finance.DebtStatusPaid, d.Status)
	d.RestoreVersion(2)

	repo.On("FindByIDForUpdate", ctx, actor.Scope(), d.ID).Return(d, nil)
	repo.On("Save", ctx, d).Return(nil)
	repo.On("DeletePayment", ctx, p.ID).Return(nil)

	resp, err := svc.DeletePayment(ctx, actor.Scope(), d.ID, p.ID)

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Empty(t, resp.Payments)

	_, err = svc.DeletePayment(ctx, actor.Scope(), d.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
