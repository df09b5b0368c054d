package finance

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Transaction
const AggregateTypeTransaction = "Transaction"

// Finance event types
const (
	EventTypeTransactionRecorded       = "TransactionRecorded"
	EventTypePayableCreated            = "PayableCreated"
	EventTypePayablePaymentRecorded    = "PayablePaymentRecorded"
	EventTypePayablePaid               = "PayablePaid"
	EventTypeReceivableCreated         = "ReceivableCreated"
	EventTypeReceivableReceiptRecorded = "ReceivableReceiptRecorded"
	EventTypeReceivablePaid            = "ReceivablePaid"
)

// TransactionRecordedEvent is published when an income or expense is booked
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionType TransactionType   `json:"transaction_type"`
	Category        string            `json:"category"`
	Amount          decimal.Decimal   `json:"amount"`
	Source          TransactionSource `json:"source"`
}

// NewTransactionRecordedEvent creates a TransactionRecordedEvent
func NewTransactionRecordedEvent(t *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRecorded, AggregateTypeTransaction, t.ID, t.BranchID),
		TransactionType: t.Type,
		Category:        t.Category,
		Amount:          t.Amount,
		Source:          t.Source,
	}
}

// PayableCreatedEvent is published when a payable is recorded
type PayableCreatedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	ContactID uuid.UUID       `json:"contact_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPayableCreatedEvent creates a PayableCreatedEvent
func NewPayableCreatedEvent(ap *AccountPayable) *PayableCreatedEvent {
	return &PayableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayableCreated, AggregateTypeAccountPayable, ap.ID, ap.BranchID),
		Number:          ap.Number,
		ContactID:       ap.ContactID,
		Amount:          ap.Amount,
	}
}

// PayablePaymentRecordedEvent is published for each payment applied to a payable
type PayablePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewPayablePaymentRecordedEvent creates a PayablePaymentRecordedEvent
func NewPayablePaymentRecordedEvent(ap *AccountPayable, p *PayablePayment) *PayablePaymentRecordedEvent {
	return &PayablePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaymentRecorded, AggregateTypeAccountPayable, ap.ID, ap.BranchID),
		Number:          ap.Number,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Outstanding:     ap.Outstanding(),
	}
}

// PayablePaidEvent is published when a payable is fully settled
type PayablePaidEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	ContactName string          `json:"contact_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewPayablePaidEvent creates a PayablePaidEvent
func NewPayablePaidEvent(ap *AccountPayable) *PayablePaidEvent {
	return &PayablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaid, AggregateTypeAccountPayable, ap.ID, ap.BranchID),
		Number:          ap.Number,
		ContactName:     ap.ContactName,
		Amount:          ap.Amount,
	}
}

// ReceivableCreatedEvent is published when a receivable is recorded
type ReceivableCreatedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	ContactID uuid.UUID       `json:"contact_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewReceivableCreatedEvent creates a ReceivableCreatedEvent
func NewReceivableCreatedEvent(ar *AccountReceivable) *ReceivableCreatedEvent {
	return &ReceivableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableCreated, AggregateTypeAccountReceivable, ar.ID, ar.BranchID),
		Number:          ar.Number,
		ContactID:       ar.ContactID,
		Amount:          ar.Amount,
	}
}

// ReceivableReceiptRecordedEvent is published for each receipt applied to a receivable
type ReceivableReceiptRecordedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	Amount      decimal.Decimal `json:"amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewReceivableReceiptRecordedEvent creates a ReceivableReceiptRecordedEvent
func NewReceivableReceiptRecordedEvent(ar *AccountReceivable, r *ReceivableReceipt) *ReceivableReceiptRecordedEvent {
	return &ReceivableReceiptRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivableReceiptRecorded, AggregateTypeAccountReceivable, ar.ID, ar.BranchID),
		Number:          ar.Number,
		ReceiptID:       r.ID,
		Amount:          r.Amount,
		Outstanding:     ar.Outstanding(),
	}
}

// ReceivablePaidEvent is published when a receivable is fully collected
type ReceivablePaidEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	ContactName string          `json:"contact_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewReceivablePaidEvent creates a ReceivablePaidEvent
func NewReceivablePaidEvent(ar *AccountReceivable) *ReceivablePaidEvent {
	return &ReceivablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceivablePaid, AggregateTypeAccountReceivable, ar.ID, ar.BranchID),
		Number:          ar.Number,
		ContactName:     ar.ContactName,
		Amount:          ar.Amount,
	}
}
