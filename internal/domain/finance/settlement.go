package finance

import (
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement errors shared by payables and receivables
var (
	ErrPaymentExceedsOutstanding = shared.NewDomainError("PAYMENT_EXCEEDS_OUTSTANDING", "Payment exceeds the outstanding amount")
	ErrDocumentClosed            = shared.NewDomainError("DOCUMENT_CLOSED", "Document is paid or cancelled")
	ErrDocumentHasPayments       = shared.NewDomainError("DOCUMENT_HAS_PAYMENTS", "Document has payments recorded")
	ErrPaymentNotFound           = shared.NewDomainError("NOT_FOUND", "Payment not found")
	ErrAmountBelowSettled        = shared.NewDomainError("AMOUNT_BELOW_SETTLED", "Amount cannot be less than what has already been settled")
)

// PaymentInput describes a payment or receipt applied to a document
type PaymentInput struct {
	Amount        decimal.Decimal
	Date          time.Time
	Method        PaymentMethod
	Reference     string
	Notes         string
	TransactionID *uuid.UUID
	CreatedBy     *uuid.UUID
}

func (in *PaymentInput) normalize(outstanding decimal.Decimal) error {
	if err := shared.RequirePositive("amount", in.Amount); err != nil {
		return err
	}
	in.Amount = shared.RoundMoney(in.Amount)
	if in.Amount.GreaterThan(outstanding) {
		return ErrPaymentExceedsOutstanding.WithDetail("outstanding", outstanding.StringFixed(2))
	}
	if in.Method != "" && !in.Method.IsValid() {
		return shared.NewValidationError("method", "unknown payment method")
	}
	in.Method = in.Method.orDefault()
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = shared.TruncateToDay(in.Date)
	in.Reference = strings.TrimSpace(in.Reference)
	in.Notes = strings.TrimSpace(in.Notes)
	return nil
}

// DocumentInput carries the editable fields of a payable or receivable
type DocumentInput struct {
	ContactID   uuid.UUID
	Description string
	Amount      decimal.Decimal
	IssueDate   time.Time
	DueDate     *time.Time
}

func (in *DocumentInput) normalize() error {
	if in.ContactID == uuid.Nil {
		return shared.NewValidationError("contact_id", "contact is required")
	}
	if err := shared.RequirePositive("amount", in.Amount); err != nil {
		return err
	}
	in.Amount = shared.RoundMoney(in.Amount)
	if in.IssueDate.IsZero() {
		in.IssueDate = time.Now()
	}
	in.IssueDate = shared.TruncateToDay(in.IssueDate)
	if in.DueDate != nil {
		due := shared.TruncateToDay(*in.DueDate)
		if due.Before(in.IssueDate) {
			return shared.NewValidationError("due_date", "due date cannot be before the issue date")
		}
		in.DueDate = &due
	}
	in.Description = strings.TrimSpace(in.Description)
	return nil
}

// daysPastDue returns how many whole days due is behind now, or 0
func daysPastDue(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	if days := shared.DaysBetween(*due, now); days > 0 {
		return days
	}
	return 0
}
