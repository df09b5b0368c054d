package finance

import (
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtStatus is the settlement state of a legacy debt
type DebtStatus string

const (
	DebtStatusPending       DebtStatus = "PENDING"
	DebtStatusPartiallyPaid DebtStatus = "PARTIALLY_PAID"
	DebtStatusPaid          DebtStatus = "PAID"
)

// IsValid checks if the status is known
func (s DebtStatus) IsValid() bool {
	return s == DebtStatusPending || s == DebtStatusPartiallyPaid || s == DebtStatusPaid
}

// PayableStatus maps a legacy debt status onto the payable lifecycle
func (s DebtStatus) PayableStatus() DocumentStatus {
	switch s {
	case DebtStatusPaid:
		return StatusPaid
	case DebtStatusPartiallyPaid:
		return StatusPartial
	default:
		return StatusPending
	}
}

// Debt errors
var (
	ErrDebtMigrated        = shared.NewDomainError("DEBT_MIGRATED", "Debt has been migrated to accounts payable and is read only")
	ErrDebtHasPayments     = shared.NewDomainError("DEBT_HAS_PAYMENTS", "Debt has payments and cannot be deleted")
	ErrPaymentExceedsDebt  = shared.NewDomainError("PAYMENT_EXCEEDS_OUTSTANDING", "Payment exceeds the remaining amount")
	ErrDebtPaymentNotFound = shared.NewDomainError("NOT_FOUND", "Debt payment not found")
)

// Debt is the legacy record of money the business owes to a free-text creditor.
// New obligations are recorded as AccountPayable against a Contact.
type Debt struct {
	shared.BranchAggregateRoot
	CreditorName      string
	Description       string
	Amount            decimal.Decimal
	PaidAmount        decimal.Decimal
	DueDate           *time.Time
	Status            DebtStatus
	MigratedAt        *time.Time
	MigratedPayableID *uuid.UUID
	Payments          []DebtPayment
}

// DebtPayment is one installment paid against a Debt
type DebtPayment struct {
	ID          uuid.UUID
	DebtID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       string
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
}

// NewDebt creates a legacy debt
func NewDebt(branchID, createdBy uuid.UUID, creditorName, description string, amount decimal.Decimal, dueDate *time.Time) (*Debt, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	creditorName = shared.CleanName(creditorName)
	if creditorName == "" {
		return nil, shared.NewValidationError("creditor_name", "creditor name is required")
	}
	if err := shared.RequirePositive("amount", amount); err != nil {
		return nil, err
	}
	return &Debt{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		CreditorName:        creditorName,
		Description:         strings.TrimSpace(description),
		Amount:              shared.RoundMoney(amount),
		PaidAmount:          decimal.Zero,
		DueDate:             dueDate,
		Status:              DebtStatusPending,
	}, nil
}

// Remaining returns the unpaid part of the debt
func (d *Debt) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.PaidAmount)
}

// IsMigrated reports whether the debt was moved to accounts payable
func (d *Debt) IsMigrated() bool {
	return d.MigratedAt != nil
}

// Update edits the creditor, description, amount and due date
func (d *Debt) Update(creditorName, description string, amount decimal.Decimal, dueDate *time.Time) error {
	if d.IsMigrated() {
		return ErrDebtMigrated
	}
	creditorName = shared.CleanName(creditorName)
	if creditorName == "" {
		return shared.NewValidationError("creditor_name", "creditor name is required")
	}
	if err := shared.RequirePositive("amount", amount); err != nil {
		return err
	}
	amount = shared.RoundMoney(amount)
	if amount.LessThan(d.PaidAmount) {
		return shared.NewValidationError("amount", "amount cannot be less than the amount already paid")
	}
	d.CreditorName = creditorName
	d.Description = strings.TrimSpace(description)
	d.Amount = amount
	d.DueDate = dueDate
	d.recomputeStatus()
	d.Touch()
	d.IncrementVersion()
	return nil
}

// AddPayment records an installment against the debt
func (d *Debt) AddPayment(amount decimal.Decimal, paymentDate time.Time, notes string, createdBy *uuid.UUID) (*DebtPayment, error) {
	if d.IsMigrated() {
		return nil, ErrDebtMigrated
	}
	if err := shared.RequirePositive("amount", amount); err != nil {
		return nil, err
	}
	amount = shared.RoundMoney(amount)
	if amount.GreaterThan(d.Remaining()) {
		return nil, ErrPaymentExceedsDebt.WithDetail("remaining", d.Remaining().StringFixed(2))
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	p := DebtPayment{
		ID:          uuid.New(),
		DebtID:      d.ID,
		Amount:      amount,
		PaymentDate: shared.TruncateToDay(paymentDate),
		Notes:       strings.TrimSpace(notes),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	d.Payments = append(d.Payments, p)
	d.PaidAmount = d.PaidAmount.Add(amount)
	d.recomputeStatus()
	d.Touch()
	d.IncrementVersion()
	return &p, nil
}

// RemovePayment deletes an installment and restores the remaining amount
func (d *Debt) RemovePayment(paymentID uuid.UUID) (*DebtPayment, error) {
	if d.IsMigrated() {
		return nil, ErrDebtMigrated
	}
	for i, p := range d.Payments {
		if p.ID != paymentID {
			continue
		}
		d.Payments = append(d.Payments[:i], d.Payments[i+1:]...)
		d.PaidAmount = d.PaidAmount.Sub(p.Amount)
		if d.PaidAmount.IsNegative() {
			d.PaidAmount = decimal.Zero
		}
		d.recomputeStatus()
		d.Touch()
		d.IncrementVersion()
		return &p, nil
	}
	return nil, ErrDebtPaymentNotFound
}

// CanDelete checks whether the debt may be removed
func (d *Debt) CanDelete() error {
	if d.IsMigrated() {
		return ErrDebtMigrated
	}
	if d.PaidAmount.IsPositive() || len(d.Payments) > 0 {
		return ErrDebtHasPayments
	}
	return nil
}

// MarkMigrated links the debt to the payable that replaced it
func (d *Debt) MarkMigrated(payableID uuid.UUID, at time.Time) {
	d.MigratedAt = &at
	d.MigratedPayableID = &payableID
	d.Touch()
	d.IncrementVersion()
}

// PaymentsTotal sums the loaded payments
func (d *Debt) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (d *Debt) recomputeStatus() {
	switch settlementStatus(d.Amount, d.PaidAmount) {
	case StatusPaid:
		d.Status = DebtStatusPaid
	case StatusPartial:
		d.Status = DebtStatusPartiallyPaid
	default:
		d.Status = DebtStatusPending
	}
}
