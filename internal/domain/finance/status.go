package finance

import (
	"github.com/shopspring/decimal"
)

// DocumentStatus is the settlement state of a payable or receivable
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "PENDING"
	StatusPartial   DocumentStatus = "PARTIAL"
	StatusPaid      DocumentStatus = "PAID"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether payments can still be applied
func (s DocumentStatus) IsOpen() bool {
	return s == StatusPending || s == StatusPartial
}

// String returns the status name
func (s DocumentStatus) String() string {
	return string(s)
}

// settlementStatus derives the status from the total and the settled part
func settlementStatus(amount, settled decimal.Decimal) DocumentStatus {
	switch {
	case settled.IsZero():
		return StatusPending
	case settled.GreaterThanOrEqual(amount):
		return StatusPaid
	default:
		return StatusPartial
	}
}

// PaymentMethod is how money moved
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// orDefault returns CASH for an empty method
func (m PaymentMethod) orDefault() PaymentMethod {
	if m == "" {
		return PaymentMethodCash
	}
	return m
}
