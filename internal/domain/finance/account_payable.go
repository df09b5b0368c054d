package finance

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for AccountPayable
const AggregateTypeAccountPayable = "AccountPayable"

// AccountPayable is money the branch owes a supplier contact
type AccountPayable struct {
	shared.BranchAggregateRoot
	Number       string
	ContactID    uuid.UUID
	ContactName  string
	Description  string
	Amount       decimal.Decimal
	PaidAmount   decimal.Decimal
	IssueDate    time.Time
	DueDate      *time.Time
	Status       DocumentStatus
	PaidAt       *time.Time
	CancelledAt  *time.Time
	LegacyDebtID *uuid.UUID
	Payments     []PayablePayment
}

// PayablePayment is a payment made against an AccountPayable
type PayablePayment struct {
	ID                  uuid.UUID
	PayableID           uuid.UUID
	BranchID            uuid.UUID
	Amount              decimal.Decimal
	PaymentDate         time.Time
	Method              PaymentMethod
	Reference           string
	Notes               string
	TransactionID       *uuid.UUID
	LegacyDebtPaymentID *uuid.UUID
	CreatedBy           *uuid.UUID
	CreatedAt           time.Time
}

// NewAccountPayable creates a pending payable
func NewAccountPayable(branchID, createdBy uuid.UUID, number string, in DocumentInput) (*AccountPayable, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if number == "" {
		return nil, shared.NewValidationError("number", "number is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	ap := &AccountPayable{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		Number:              number,
		ContactID:           in.ContactID,
		Description:         in.Description,
		Amount:              in.Amount,
		PaidAmount:          decimal.Zero,
		IssueDate:           in.IssueDate,
		DueDate:             in.DueDate,
		Status:              StatusPending,
	}
	ap.AddDomainEvent(NewPayableCreatedEvent(ap))
	return ap, nil
}

// Outstanding returns the unpaid part
func (ap *AccountPayable) Outstanding() decimal.Decimal {
	return ap.Amount.Sub(ap.PaidAmount)
}

// Update edits the description, amount and due date of an open payable
func (ap *AccountPayable) Update(in DocumentInput) error {
	if !ap.Status.IsOpen() {
		return ErrDocumentClosed
	}
	in.ContactID = ap.ContactID
	in.IssueDate = ap.IssueDate
	if err := in.normalize(); err != nil {
		return err
	}
	if in.Amount.LessThan(ap.PaidAmount) {
		return ErrAmountBelowSettled
	}
	ap.Description = in.Description
	ap.Amount = in.Amount
	ap.DueDate = in.DueDate
	ap.refreshStatus(time.Now())
	ap.Touch()
	ap.IncrementVersion()
	return nil
}

// RecordPayment applies a payment and returns it
func (ap *AccountPayable) RecordPayment(in PaymentInput) (*PayablePayment, error) {
	if !ap.Status.IsOpen() {
		return nil, ErrDocumentClosed
	}
	if err := in.normalize(ap.Outstanding()); err != nil {
		return nil, err
	}
	now := time.Now()
	p := PayablePayment{
		ID:            uuid.New(),
		PayableID:     ap.ID,
		BranchID:      ap.BranchID,
		Amount:        in.Amount,
		PaymentDate:   in.Date,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		TransactionID: in.TransactionID,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
	}
	ap.Payments = append(ap.Payments, p)
	ap.PaidAmount = ap.PaidAmount.Add(p.Amount)
	ap.refreshStatus(now)
	ap.Touch()
	ap.IncrementVersion()

	ap.AddDomainEvent(NewPayablePaymentRecordedEvent(ap, &p))
	if ap.Status == StatusPaid {
		ap.AddDomainEvent(NewPayablePaidEvent(ap))
	}
	return &p, nil
}

// RemovePayment reverses a payment. A paid payable reopens.
func (ap *AccountPayable) RemovePayment(paymentID uuid.UUID) (*PayablePayment, error) {
	if ap.Status == StatusCancelled {
		return nil, ErrDocumentClosed
	}
	for i, p := range ap.Payments {
		if p.ID != paymentID {
			continue
		}
		ap.Payments = append(ap.Payments[:i], ap.Payments[i+1:]...)
		ap.PaidAmount = ap.PaidAmount.Sub(p.Amount)
		if ap.PaidAmount.IsNegative() {
			ap.PaidAmount = decimal.Zero
		}
		ap.refreshStatus(time.Now())
		ap.Touch()
		ap.IncrementVersion()
		return &p, nil
	}
	return nil, ErrPaymentNotFound
}

// Cancel voids a payable that has no payments
func (ap *AccountPayable) Cancel() error {
	if ap.Status == StatusCancelled || ap.Status == StatusPaid {
		return ErrDocumentClosed
	}
	if ap.PaidAmount.IsPositive() {
		return ErrDocumentHasPayments
	}
	now := time.Now()
	ap.Status = StatusCancelled
	ap.CancelledAt = &now
	ap.Touch()
	ap.IncrementVersion()
	return nil
}

// CanDelete checks that no money has been applied
func (ap *AccountPayable) CanDelete() error {
	if ap.PaidAmount.IsPositive() || len(ap.Payments) > 0 {
		return ErrDocumentHasPayments
	}
	return nil
}

// IsOverdue reports whether the due date has passed with money still owed
func (ap *AccountPayable) IsOverdue(now time.Time) bool {
	return ap.Status.IsOpen() && daysPastDue(ap.DueDate, now) > 0
}

// DaysOverdue returns how many days the payable is past due
func (ap *AccountPayable) DaysOverdue(now time.Time) int {
	if !ap.Status.IsOpen() {
		return 0
	}
	return daysPastDue(ap.DueDate, now)
}

func (ap *AccountPayable) refreshStatus(now time.Time) {
	ap.Status = settlementStatus(ap.Amount, ap.PaidAmount)
	if ap.Status == StatusPaid {
		if ap.PaidAt == nil {
			ap.PaidAt = &now
		}
	} else {
		ap.PaidAt = nil
	}
}

// AccountPayableFromDebt builds the payable that replaces a legacy debt.
// Amounts, dates and status are carried over unchanged.
func AccountPayableFromDebt(d *Debt, contactID uuid.UUID, number string) *AccountPayable {
	ap := &AccountPayable{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(d.BranchID),
		Number:              number,
		ContactID:           contactID,
		Description:         d.Description,
		Amount:              d.Amount,
		PaidAmount:          d.PaidAmount,
		IssueDate:           shared.TruncateToDay(d.CreatedAt),
		DueDate:             d.DueDate,
		Status:              d.Status.PayableStatus(),
	}
	ap.CreatedBy = d.CreatedBy
	ap.CreatedAt = d.CreatedAt
	legacyID := d.ID
	ap.LegacyDebtID = &legacyID
	if ap.Status == StatusPaid {
		paidAt := d.UpdatedAt
		ap.PaidAt = &paidAt
	}
	for _, dp := range d.Payments {
		legacyPaymentID := dp.ID
		ap.Payments = append(ap.Payments, PayablePayment{
			ID:                  uuid.New(),
			PayableID:           ap.ID,
			BranchID:            ap.BranchID,
			Amount:              dp.Amount,
			PaymentDate:         dp.PaymentDate,
			Method:              PaymentMethodOther,
			Notes:               dp.Notes,
			LegacyDebtPaymentID: &legacyPaymentID,
			CreatedBy:           dp.CreatedBy,
			CreatedAt:           dp.CreatedAt,
		})
	}
	return ap
}
