package finance

import (
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType separates money in from money out
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the type is known
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionSource records what produced a transaction
type TransactionSource string

const (
	SourceManual            TransactionSource = "MANUAL"
	SourcePayablePayment    TransactionSource = "PAYABLE_PAYMENT"
	SourceReceivableReceipt TransactionSource = "RECEIVABLE_RECEIPT"
	SourcePayroll           TransactionSource = "PAYROLL"
)

// Categories used by system-generated transactions
const (
	CategoryPayablePayment    = "Supplier Payment"
	CategoryReceivableReceipt = "Customer Receipt"
	CategoryPayroll           = "Payroll"
)

// ErrTransactionLocked is returned when editing a system-generated transaction
var ErrTransactionLocked = shared.NewDomainError("TRANSACTION_LOCKED", "System generated transactions can only be changed through their source document")

// Transaction is a single income or expense entry of a branch
type Transaction struct {
	shared.BranchAggregateRoot
	Type          TransactionType
	Category      string
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	PaymentMethod PaymentMethod
	Reference     string
	ContactID     *uuid.UUID
	AttachmentKey string
	Source        TransactionSource
	SourceID      *uuid.UUID
}

// TransactionInput carries the editable fields of a transaction
type TransactionInput struct {
	Type          TransactionType
	Category      string
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	PaymentMethod PaymentMethod
	Reference     string
	ContactID     *uuid.UUID
}

func (in TransactionInput) validate() error {
	if !in.Type.IsValid() {
		return shared.NewValidationError("type", "type must be INCOME or EXPENSE")
	}
	if strings.TrimSpace(in.Category) == "" {
		return shared.NewValidationError("category", "category is required")
	}
	if len(in.Category) > 100 {
		return shared.NewValidationError("category", "category cannot exceed 100 characters")
	}
	if err := shared.RequirePositive("amount", in.Amount); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return shared.NewValidationError("date", "date is required")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.IsValid() {
		return shared.NewValidationError("payment_method", "unknown payment method")
	}
	return nil
}

// NewTransaction creates a manual transaction
func NewTransaction(branchID, createdBy uuid.UUID, in TransactionInput) (*Transaction, error) {
	return newTransaction(branchID, createdBy, in, SourceManual, nil)
}

// NewSystemTransaction creates a transaction owned by another document such as a payment or payroll run
func NewSystemTransaction(branchID, createdBy uuid.UUID, in TransactionInput, source TransactionSource, sourceID uuid.UUID) (*Transaction, error) {
	return newTransaction(branchID, createdBy, in, source, &sourceID)
}

func newTransaction(branchID, createdBy uuid.UUID, in TransactionInput, source TransactionSource, sourceID *uuid.UUID) (*Transaction, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	t := &Transaction{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		Source:              source,
		SourceID:            sourceID,
	}
	t.apply(in)
	t.AddDomainEvent(NewTransactionRecordedEvent(t))
	return t, nil
}

func (t *Transaction) apply(in TransactionInput) {
	t.Type = in.Type
	t.Category = strings.TrimSpace(in.Category)
	t.Amount = shared.RoundMoney(in.Amount)
	t.Date = shared.TruncateToDay(in.Date)
	t.Description = strings.TrimSpace(in.Description)
	t.PaymentMethod = in.PaymentMethod.orDefault()
	t.Reference = strings.TrimSpace(in.Reference)
	t.ContactID = in.ContactID
}

// IsSystemGenerated reports whether the transaction belongs to another document
func (t *Transaction) IsSystemGenerated() bool {
	return t.Source != "" && t.Source != SourceManual
}

// Update replaces the editable fields of a manual transaction
func (t *Transaction) Update(in TransactionInput) error {
	if t.IsSystemGenerated() {
		return ErrTransactionLocked
	}
	if err := in.validate(); err != nil {
		return err
	}
	t.apply(in)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// CanDelete checks whether the transaction may be removed directly
func (t *Transaction) CanDelete() error {
	if t.IsSystemGenerated() {
		return ErrTransactionLocked
	}
	return nil
}

// AttachFile records the object storage key of a receipt or invoice scan
func (t *Transaction) AttachFile(key string) {
	t.AttachmentKey = key
	t.Touch()
	t.IncrementVersion()
}

// SignedAmount returns the amount as positive income or negative expense
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
