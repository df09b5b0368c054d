package payroll

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeEmployee = "Employee"

var employeeCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,29}$`)

// EmployeeStatus is the employment state
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "ACTIVE"
	EmployeeInactive   EmployeeStatus = "INACTIVE"
	EmployeeTerminated EmployeeStatus = "TERMINATED"
)

// IsValid checks if the status is known
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated:
		return true
	}
	return false
}

var (
	ErrEmployeeTerminated = shared.NewDomainError("EMPLOYEE_TERMINATED", "Employee is terminated")
	ErrEmployeeHasPayroll = shared.NewDomainError("EMPLOYEE_HAS_PAYROLL", "Employee has payroll records; terminate instead")
	ErrDuplicateCode      = shared.NewDomainError("ALREADY_EXISTS", "An employee with this code already exists in the branch")
)

// Employee is a person on a branch's payroll
type Employee struct {
	shared.BranchAggregateRoot
	Code         string
	FullName     string
	Position     string
	Department   string
	Phone        string
	Email        string
	HireDate     time.Time
	BaseSalary   decimal.Decimal
	BankAccount  string
	Status       EmployeeStatus
	TerminatedAt *time.Time
}

// EmployeeInput carries the editable fields of an employee
type EmployeeInput struct {
	Code        string
	FullName    string
	Position    string
	Department  string
	Phone       string
	Email       string
	HireDate    time.Time
	BaseSalary  decimal.Decimal
	BankAccount string
}

func (in *EmployeeInput) normalize() error {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if !employeeCodePattern.MatchString(in.Code) {
		return shared.NewValidationError("code", "code must be 1-30 letters, digits, '-' or '_'")
	}
	in.FullName = shared.CleanName(in.FullName)
	if in.FullName == "" {
		return shared.NewValidationError("full_name", "full name is required")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return shared.NewValidationError("email", "email is invalid")
		}
	}
	if err := shared.RequireNonNegative("base_salary", in.BaseSalary); err != nil {
		return err
	}
	if in.HireDate.IsZero() {
		return shared.NewValidationError("hire_date", "hire date is required")
	}
	in.HireDate = shared.TruncateToDay(in.HireDate)
	in.Position = strings.TrimSpace(in.Position)
	in.Department = strings.TrimSpace(in.Department)
	in.Phone = strings.TrimSpace(in.Phone)
	in.BankAccount = strings.TrimSpace(in.BankAccount)
	return nil
}

// NewEmployee creates an ACTIVE employee
func NewEmployee(branchID, createdBy uuid.UUID, in EmployeeInput) (*Employee, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	e := &Employee{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		Status:              EmployeeActive,
	}
	e.apply(in)
	return e, nil
}

func (e *Employee) apply(in EmployeeInput) {
	e.Code = in.Code
	e.FullName = in.FullName
	e.Position = in.Position
	e.Department = in.Department
	e.Phone = in.Phone
	e.Email = in.Email
	e.HireDate = in.HireDate
	e.BaseSalary = shared.RoundMoney(in.BaseSalary)
	e.BankAccount = in.BankAccount
}

// Update replaces the employee details. Terminated employees are read only.
func (e *Employee) Update(in EmployeeInput) error {
	if e.Status == EmployeeTerminated {
		return ErrEmployeeTerminated
	}
	if err := in.normalize(); err != nil {
		return err
	}
	e.apply(in)
	e.Touch()
	e.IncrementVersion()
	return nil
}

// SetStatus moves between ACTIVE and INACTIVE
func (e *Employee) SetStatus(status EmployeeStatus) error {
	if !status.IsValid() || status == EmployeeTerminated {
		return shared.NewValidationError("status", "status must be ACTIVE or INACTIVE")
	}
	if e.Status == EmployeeTerminated {
		return ErrEmployeeTerminated
	}
	if e.Status == status {
		return nil
	}
	e.Status = status
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Terminate ends employment
func (e *Employee) Terminate(at time.Time) error {
	if e.Status == EmployeeTerminated {
		return ErrEmployeeTerminated
	}
	day := shared.TruncateToDay(at)
	e.Status = EmployeeTerminated
	e.TerminatedAt = &day
	e.Touch()
	e.IncrementVersion()
	return nil
}

// IsPayable reports whether payroll may be generated for the employee
func (e *Employee) IsPayable() bool {
	return e.Status == EmployeeActive
}
