package payroll

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypePayrollRecord = "PayrollRecord"

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// RecordStatus is the lifecycle state of a payroll record
type RecordStatus string

const (
	RecordDraft    RecordStatus = "DRAFT"
	RecordApproved RecordStatus = "APPROVED"
	RecordPaid     RecordStatus = "PAID"
)

// IsValid checks if the status is known
func (s RecordStatus) IsValid() bool {
	return s == RecordDraft || s == RecordApproved || s == RecordPaid
}

var (
	ErrInvalidTransition = shared.NewDomainError("INVALID_STATE", "Payroll record is not in a state that allows this action")
	ErrNegativeNetPay    = shared.NewDomainError("NEGATIVE_NET_PAY", "Deductions exceed gross pay")
	ErrDuplicatePeriod   = shared.NewDomainError("ALREADY_EXISTS", "Employee already has a payroll record for this period")
)

// ValidatePeriod checks a YYYY-MM period string
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return shared.NewValidationError("period", "period must use the YYYY-MM format")
	}
	return nil
}

// PeriodOf formats t as a payroll period
func PeriodOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Record is one employee's pay for one period
type Record struct {
	shared.BranchAggregateRoot
	EmployeeID    uuid.UUID
	EmployeeName  string
	Period        string
	BaseSalary    decimal.Decimal
	Allowances    decimal.Decimal
	Bonuses       decimal.Decimal
	Deductions    decimal.Decimal
	NetPay        decimal.Decimal
	Status        RecordStatus
	ApprovedAt    *time.Time
	ApprovedBy    *uuid.UUID
	PaidAt        *time.Time
	TransactionID *uuid.UUID
	Notes         string
}

// Amounts carries the adjustable components of a record
type Amounts struct {
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Bonuses    decimal.Decimal
	Deductions decimal.Decimal
	Notes      string
}

func (a Amounts) netPay() (decimal.Decimal, error) {
	for field, v := range map[string]decimal.Decimal{
		"base_salary": a.BaseSalary, "allowances": a.Allowances, "bonuses": a.Bonuses, "deductions": a.Deductions,
	} {
		if err := shared.RequireNonNegative(field, v); err != nil {
			return decimal.Zero, err
		}
	}
	net := a.BaseSalary.Add(a.Allowances).Add(a.Bonuses).Sub(a.Deductions)
	if net.IsNegative() {
		return decimal.Zero, ErrNegativeNetPay
	}
	return shared.RoundMoney(net), nil
}

// NewRecord creates a DRAFT record for an employee
func NewRecord(e *Employee, createdBy uuid.UUID, period string, amounts Amounts) (*Record, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	if !e.IsPayable() {
		return nil, shared.NewDomainError("EMPLOYEE_NOT_ACTIVE", "Payroll can only be created for active employees")
	}
	net, err := amounts.netPay()
	if err != nil {
		return nil, err
	}
	r := &Record{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(e.BranchID, createdBy),
		EmployeeID:          e.ID,
		EmployeeName:        e.FullName,
		Period:              period,
		Status:              RecordDraft,
	}
	r.setAmounts(amounts, net)
	return r, nil
}

// NewDraftFromEmployee creates a record from the employee's base salary
func NewDraftFromEmployee(e *Employee, createdBy uuid.UUID, period string) (*Record, error) {
	return NewRecord(e, createdBy, period, Amounts{BaseSalary: e.BaseSalary})
}

func (r *Record) setAmounts(a Amounts, net decimal.Decimal) {
	r.BaseSalary = shared.RoundMoney(a.BaseSalary)
	r.Allowances = shared.RoundMoney(a.Allowances)
	r.Bonuses = shared.RoundMoney(a.Bonuses)
	r.Deductions = shared.RoundMoney(a.Deductions)
	r.NetPay = net
	r.Notes = strings.TrimSpace(a.Notes)
}

// Gross is base plus allowances plus bonuses
func (r *Record) Gross() decimal.Decimal {
	return r.BaseSalary.Add(r.Allowances).Add(r.Bonuses)
}

// Update changes the amounts of a DRAFT record
func (r *Record) Update(a Amounts) error {
	if r.Status != RecordDraft {
		return ErrInvalidTransition.WithDetail("status", string(r.Status))
	}
	net, err := a.netPay()
	if err != nil {
		return err
	}
	r.setAmounts(a, net)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// Approve moves DRAFT to APPROVED
func (r *Record) Approve(by uuid.UUID, at time.Time) error {
	if r.Status != RecordDraft {
		return ErrInvalidTransition.WithDetail("status", string(r.Status))
	}
	r.Status = RecordApproved
	r.ApprovedAt = &at
	if by != uuid.Nil {
		r.ApprovedBy = &by
	}
	r.Touch()
	r.IncrementVersion()
	return nil
}

// MarkPaid moves APPROVED to PAID and links the expense transaction
func (r *Record) MarkPaid(transactionID uuid.UUID, at time.Time) error {
	if r.Status != RecordApproved {
		return ErrInvalidTransition.WithDetail("status", string(r.Status))
	}
	r.Status = RecordPaid
	r.PaidAt = &at
	r.TransactionID = &transactionID
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewPayrollPaidEvent(r))
	return nil
}

// CanDelete reports whether the record is still a draft
func (r *Record) CanDelete() error {
	if r.Status != RecordDraft {
		return ErrInvalidTransition.WithDetail("status", string(r.Status))
	}
	return nil
}

// ExpenseDescription is the description of the payroll expense transaction
func (r *Record) ExpenseDescription() string {
	return fmt.Sprintf("Payroll %s - %s", r.Period, r.EmployeeName)
}
