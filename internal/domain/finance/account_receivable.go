package finance

import (
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for AccountReceivable
const AggregateTypeAccountReceivable = "AccountReceivable"

// AccountReceivable is money a customer contact owes the branch
type AccountReceivable struct {
	shared.BranchAggregateRoot
	Number         string
	ContactID      uuid.UUID
	ContactName    string
	Description    string
	Amount         decimal.Decimal
	ReceivedAmount decimal.Decimal
	IssueDate      time.Time
	DueDate        *time.Time
	Status         DocumentStatus
	PaidAt         *time.Time
	CancelledAt    *time.Time
	Receipts       []ReceivableReceipt
}

// ReceivableReceipt is money received against an AccountReceivable
type ReceivableReceipt struct {
	ID            uuid.UUID
	ReceivableID  uuid.UUID
	BranchID      uuid.UUID
	Amount        decimal.Decimal
	ReceiptDate   time.Time
	Method        PaymentMethod
	Reference     string
	Notes         string
	TransactionID *uuid.UUID
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

// NewAccountReceivable creates a pending receivable
func NewAccountReceivable(branchID, createdBy uuid.UUID, number string, in DocumentInput) (*AccountReceivable, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if number == "" {
		return nil, shared.NewValidationError("number", "number is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	ar := &AccountReceivable{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		Number:              number,
		ContactID:           in.ContactID,
		Description:         in.Description,
		Amount:              in.Amount,
		ReceivedAmount:      decimal.Zero,
		IssueDate:           in.IssueDate,
		DueDate:             in.DueDate,
		Status:              StatusPending,
	}
	ar.AddDomainEvent(NewReceivableCreatedEvent(ar))
	return ar, nil
}

// Outstanding returns the part not yet received
func (ar *AccountReceivable) Outstanding() decimal.Decimal {
	return ar.Amount.Sub(ar.ReceivedAmount)
}

// Update edits the description, amount and due date of an open receivable
func (ar *AccountReceivable) Update(in DocumentInput) error {
	if !ar.Status.IsOpen() {
		return ErrDocumentClosed
	}
	in.ContactID = ar.ContactID
	in.IssueDate = ar.IssueDate
	if err := in.normalize(); err != nil {
		return err
	}
	if in.Amount.LessThan(ar.ReceivedAmount) {
		return ErrAmountBelowSettled
	}
	ar.Description = in.Description
	ar.Amount = in.Amount
	ar.DueDate = in.DueDate
	ar.refreshStatus(time.Now())
	ar.Touch()
	ar.IncrementVersion()
	return nil
}

// RecordReceipt applies money received and returns the receipt
func (ar *AccountReceivable) RecordReceipt(in PaymentInput) (*ReceivableReceipt, error) {
	if !ar.Status.IsOpen() {
		return nil, ErrDocumentClosed
	}
	if err := in.normalize(ar.Outstanding()); err != nil {
		return nil, err
	}
	now := time.Now()
	r := ReceivableReceipt{
		ID:            uuid.New(),
		ReceivableID:  ar.ID,
		BranchID:      ar.BranchID,
		Amount:        in.Amount,
		ReceiptDate:   in.Date,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		TransactionID: in.TransactionID,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
	}
	ar.Receipts = append(ar.Receipts, r)
	ar.ReceivedAmount = ar.ReceivedAmount.Add(r.Amount)
	ar.refreshStatus(now)
	ar.Touch()
	ar.IncrementVersion()

	ar.AddDomainEvent(NewReceivableReceiptRecordedEvent(ar, &r))
	if ar.Status == StatusPaid {
		ar.AddDomainEvent(NewReceivablePaidEvent(ar))
	}
	return &r, nil
}

// RemoveReceipt reverses a receipt. A paid receivable reopens.
func (ar *AccountReceivable) RemoveReceipt(receiptID uuid.UUID) (*ReceivableReceipt, error) {
	if ar.Status == StatusCancelled {
		return nil, ErrDocumentClosed
	}
	for i, r := range ar.Receipts {
		if r.ID != receiptID {
			continue
		}
		ar.Receipts = append(ar.Receipts[:i], ar.Receipts[i+1:]...)
		ar.ReceivedAmount = ar.ReceivedAmount.Sub(r.Amount)
		if ar.ReceivedAmount.IsNegative() {
			ar.ReceivedAmount = decimal.Zero
		}
		ar.refreshStatus(time.Now())
		ar.Touch()
		ar.IncrementVersion()
		return &r, nil
	}
	return nil, ErrPaymentNotFound
}

// Cancel voids a receivable that has no receipts
func (ar *AccountReceivable) Cancel() error {
	if ar.Status == StatusCancelled || ar.Status == StatusPaid {
		return ErrDocumentClosed
	}
	if ar.ReceivedAmount.IsPositive() {
		return ErrDocumentHasPayments
	}
	now := time.Now()
	ar.Status = StatusCancelled
	ar.CancelledAt = &now
	ar.Touch()
	ar.IncrementVersion()
	return nil
}

// CanDelete checks that no money has been received
func (ar *AccountReceivable) CanDelete() error {
	if ar.ReceivedAmount.IsPositive() || len(ar.Receipts) > 0 {
		return ErrDocumentHasPayments
	}
	return nil
}

// IsOverdue reports whether the due date has passed with money still owed
func (ar *AccountReceivable) IsOverdue(now time.Time) bool {
	return ar.Status.IsOpen() && daysPastDue(ar.DueDate, now) > 0
}

// DaysOverdue returns how many days the receivable is past due
func (ar *AccountReceivable) DaysOverdue(now time.Time) int {
	if !ar.Status.IsOpen() {
		return 0
	}
	return daysPastDue(ar.DueDate, now)
}

func (ar *AccountReceivable) refreshStatus(now time.Time) {
	ar.Status = settlementStatus(ar.Amount, ar.ReceivedAmount)
	if ar.Status == StatusPaid {
		if ar.PaidAt == nil {
			ar.PaidAt = &now
		}
	} else {
		ar.PaidAt = nil
	}
}
