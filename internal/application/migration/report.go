package migration

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunOptions controls one migration run
type RunOptions struct {
	DryRun   bool       `json:"dry_run"`
	BranchID *uuid.UUID `json:"branch_id,omitempty"`
}

// SkippedDebt is a debt left in place because its data is inconsistent
type SkippedDebt struct {
	DebtID        uuid.UUID       `json:"debt_id"`
	CreditorName  string          `json:"creditor_name"`
	Reason        string          `json:"reason"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
}

// Sums compares money on the legacy side with what was written on the payable side
type Sums struct {
	SourceAmount   decimal.Decimal `json:"source_amount"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	SourcePaid     decimal.Decimal `json:"source_paid"`
	TargetPaid     decimal.Decimal `json:"target_paid"`
	SourcePayments decimal.Decimal `json:"source_payments"`
	TargetPayments decimal.Decimal `json:"target_payments"`
}

// Balanced reports whether every source sum equals its target
func (s Sums) Balanced() bool {
	return s.SourceAmount.Equal(s.TargetAmount) &&
		s.SourcePaid.Equal(s.TargetPaid) &&
		s.SourcePayments.Equal(s.TargetPayments)
}

// Report is the outcome of a run
type Report struct {
	DryRun           bool          `json:"dry_run"`
	DebtsScanned     int           `json:"debts_scanned"`
	DebtsMigrated    int           `json:"debts_migrated"`
	DebtsSkipped     int           `json:"debts_skipped"`
	ContactsCreated  int           `json:"contacts_created"`
	ContactsReused   int           `json:"contacts_reused"`
	ContactsPromoted int           `json:"contacts_promoted"`
	PaymentsCopied   int           `json:"payments_copied"`
	Sums             Sums          `json:"sums"`
	Skipped          []SkippedDebt `json:"skipped,omitempty"`
}

func newReport(dryRun bool) *Report {
	return &Report{
		DryRun: dryRun,
		Sums: Sums{
			SourceAmount:   decimal.Zero,
			TargetAmount:   decimal.Zero,
			SourcePaid:     decimal.Zero,
			TargetPaid:     decimal.Zero,
			SourcePayments: decimal.Zero,
			TargetPayments: decimal.Zero,
		},
	}
}

// LedgerTotals are the counts and sums verification compares
type LedgerTotals struct {
	MigratedDebts        int64
	DebtAmount           decimal.Decimal
	DebtPaid             decimal.Decimal
	DebtPayments         int64
	DebtPaymentsAmount   decimal.Decimal
	LegacyPayables       int64
	PayableAmount        decimal.Decimal
	PayablePaid          decimal.Decimal
	LegacyPayments       int64
	LegacyPaymentsAmount decimal.Decimal
}

// PaidMismatch is a payable whose paid amount differs from the sum of its payments
type PaidMismatch struct {
	PayableID     uuid.UUID       `json:"payable_id"`
	Number        string          `json:"number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
}

// Check is one verification comparison
type Check struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Target string `json:"target"`
	OK     bool   `json:"ok"`
}

// VerifyReport lists every check and the payables that fail the paid-amount rule
type VerifyReport struct {
	OK         bool           `json:"ok"`
	Checks     []Check        `json:"checks"`
	Mismatches []PaidMismatch `json:"mismatches,omitempty"`
}
