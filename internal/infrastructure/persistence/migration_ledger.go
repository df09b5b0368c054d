package persistence

import (
	"context"

	"github.com/erp/accounting/internal/application/migration"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMigrationLedger reads the legacy and migrated tables side by side
type GormMigrationLedger struct {
	db *gorm.DB
}

// NewGormMigrationLedger creates a new GormMigrationLedger
func NewGormMigrationLedger(db *gorm.DB) *GormMigrationLedger {
	return &GormMigrationLedger{db: db}
}

type countSum struct {
	Count int64
	Total decimal.Decimal
	Paid  decimal.Decimal
}

// Totals counts and sums migrated debts, their payments, and the payables created from them
func (l *GormMigrationLedger) Totals(ctx context.Context, scope shared.Scope) (*migration.LedgerTotals, error) {
	db := l.db.WithContext(ctx)
	var debts, debtPayments, payables, payablePayments countSum

	err := scoped(db.Table("debts"), scope, "branch_id").
		Where("migrated_at IS NOT NULL").
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(paid_amount), 0) AS paid").
		Scan(&debts).Error
	if err != nil {
		return nil, err
	}
	err = scoped(db.Table("debt_payments").Joins("JOIN debts ON debts.id = debt_payments.debt_id"), scope, "debts.branch_id").
		Where("debts.migrated_at IS NOT NULL").
		Select("COUNT(*) AS count, COALESCE(SUM(debt_payments.amount), 0) AS total").
		Scan(&debtPayments).Error
	if err != nil {
		return nil, err
	}
	err = scoped(db.Table("account_payables"), scope, "branch_id").
		Where("legacy_debt_id IS NOT NULL").
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(paid_amount), 0) AS paid").
		Scan(&payables).Error
	if err != nil {
		return nil, err
	}
	err = scoped(db.Table("payable_payments"), scope, "branch_id").
		Where("legacy_debt_payment_id IS NOT NULL").
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Scan(&payablePayments).Error
	if err != nil {
		return nil, err
	}

	return &migration.LedgerTotals{
		MigratedDebts:        debts.Count,
		DebtAmount:           debts.Total,
		DebtPaid:             debts.Paid,
		DebtPayments:         debtPayments.Count,
		DebtPaymentsAmount:   debtPayments.Total,
		LegacyPayables:       payables.Count,
		PayableAmount:        payables.Total,
		PayablePaid:          payables.Paid,
		LegacyPayments:       payablePayments.Count,
		LegacyPaymentsAmount: payablePayments.Total,
	}, nil
}

type paidMismatchRow struct {
	ID            uuid.UUID
	Number        string
	PaidAmount    decimal.Decimal
	PaymentsTotal decimal.Decimal
}

// PaidMismatches lists payables whose paid_amount is not the sum of their payments
func (l *GormMigrationLedger) PaidMismatches(ctx context.Context, scope shared.Scope) ([]migration.PaidMismatch, error) {
	var rows []paidMismatchRow
	err := scoped(l.db.WithContext(ctx).Table("account_payables"), scope, "account_payables.branch_id").
		Joins("LEFT JOIN payable_payments ON payable_payments.payable_id = account_payables.id").
		Select("account_payables.id, account_payables.number, account_payables.paid_amount, " +
			"COALESCE(SUM(payable_payments.amount), 0) AS payments_total").
		Group("account_payables.id, account_payables.number, account_payables.paid_amount").
		Having("account_payables.paid_amount <> COALESCE(SUM(payable_payments.amount), 0)").
		Order("account_payables.number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]migration.PaidMismatch, len(rows))
	for i, r := range rows {
		out[i] = migration.PaidMismatch{
			PayableID:     r.ID,
			Number:        r.Number,
			PaidAmount:    r.PaidAmount,
			PaymentsTotal: r.PaymentsTotal,
		}
	}
	return out, nil
}

var _ migration.Ledger = (*GormMigrationLedger)(nil)
