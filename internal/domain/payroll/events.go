package payroll

import (
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EventTypePayrollPaid = "PayrollPaid"

// PayrollPaidEvent is published after a payroll record is paid
type PayrollPaidEvent struct {
	shared.BaseDomainEvent
	EmployeeID    uuid.UUID       `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Period        string          `json:"period"`
	NetPay        decimal.Decimal `json:"net_pay"`
	TransactionID uuid.UUID       `json:"transaction_id"`
}

// NewPayrollPaidEvent creates a PayrollPaidEvent
func NewPayrollPaidEvent(r *Record) *PayrollPaidEvent {
	ev := &PayrollPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayrollPaid, AggregateTypePayrollRecord, r.ID, r.BranchID),
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Period:          r.Period,
		NetPay:          r.NetPay,
	}
	if r.TransactionID != nil {
		ev.TransactionID = *r.TransactionID
	}
	return ev
}
