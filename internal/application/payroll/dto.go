package payroll

import (
	"time"

	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest represents a request to add an employee
type CreateEmployeeRequest struct {
	BranchID    *uuid.UUID      `json:"branch_id"`
	Code        string          `json:"code" binding:"required,max=30"`
	FullName    string          `json:"full_name" binding:"required,max=200"`
	Position    string          `json:"position" binding:"max=100"`
	Department  string          `json:"department" binding:"max=100"`
	Phone       string          `json:"phone" binding:"max=50"`
	Email       string          `json:"email" binding:"omitempty,email,max=200"`
	HireDate    string          `json:"hire_date" binding:"required"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	BankAccount string          `json:"bank_account" binding:"max=100"`
}

// UpdateEmployeeRequest represents a partial employee update
type UpdateEmployeeRequest struct {
	Code        *string          `json:"code" binding:"omitempty,max=30"`
	FullName    *string          `json:"full_name" binding:"omitempty,max=200"`
	Position    *string          `json:"position" binding:"omitempty,max=100"`
	Department  *string          `json:"department" binding:"omitempty,max=100"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	Email       *string          `json:"email" binding:"omitempty,max=200"`
	HireDate    *string          `json:"hire_date"`
	BaseSalary  *decimal.Decimal `json:"base_salary"`
	BankAccount *string          `json:"bank_account" binding:"omitempty,max=100"`
	Status      *string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// TerminateEmployeeRequest ends employment on a date, today by default
type TerminateEmployeeRequest struct {
	Date string `json:"date"`
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
	Department string `form:"department"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=code full_name department hire_date base_salary status created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID           uuid.UUID       `json:"id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Code         string          `json:"code"`
	FullName     string          `json:"full_name"`
	Position     string          `json:"position"`
	Department   string          `json:"department"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	HireDate     string          `json:"hire_date"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	BankAccount  string          `json:"bank_account"`
	Status       string          `json:"status"`
	TerminatedAt *string         `json:"terminated_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// GeneratePayrollRequest creates drafts for every active employee of a branch
type GeneratePayrollRequest struct {
	BranchID *uuid.UUID `json:"branch_id"`
	Period   string     `json:"period" binding:"required"`
}

// CreateRecordRequest creates a single payroll record.
// BaseSalary defaults to the employee's salary.
type CreateRecordRequest struct {
	EmployeeID uuid.UUID        `json:"employee_id" binding:"required"`
	Period     string           `json:"period" binding:"required"`
	BaseSalary *decimal.Decimal `json:"base_salary"`
	Allowances decimal.Decimal  `json:"allowances"`
	Bonuses    decimal.Decimal  `json:"bonuses"`
	Deductions decimal.Decimal  `json:"deductions"`
	Notes      string           `json:"notes" binding:"max=1000"`
}

// UpdateRecordRequest edits the amounts of a draft record
type UpdateRecordRequest struct {
	BaseSalary *decimal.Decimal `json:"base_salary"`
	Allowances *decimal.Decimal `json:"allowances"`
	Bonuses    *decimal.Decimal `json:"bonuses"`
	Deductions *decimal.Decimal `json:"deductions"`
	Notes      *string          `json:"notes" binding:"omitempty,max=1000"`
}

// PayRecordRequest pays an approved record
type PayRecordRequest struct {
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER CARD CHEQUE OTHER"`
	Reference     string `json:"reference" binding:"max=100"`
}

// RecordListFilter represents filter options for the payroll list
type RecordListFilter struct {
	Period     string     `form:"period"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PAID"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=period net_pay status paid_at created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordResponse represents a payroll record in API responses
type RecordResponse struct {
	ID            uuid.UUID       `json:"id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Period        string          `json:"period"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Bonuses       decimal.Decimal `json:"bonuses"`
	Deductions    decimal.Decimal `json:"deductions"`
	Gross         decimal.Decimal `json:"gross"`
	NetPay        decimal.Decimal `json:"net_pay"`
	Status        string          `json:"status"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy    *uuid.UUID      `json:"approved_by,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToEmployeeResponse converts a domain employee
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		BranchID:    e.BranchID,
		Code:        e.Code,
		FullName:    e.FullName,
		Position:    e.Position,
		Department:  e.Department,
		Phone:       e.Phone,
		Email:       e.Email,
		HireDate:    e.HireDate.Format(shared.DateLayout),
		BaseSalary:  e.BaseSalary,
		BankAccount: e.BankAccount,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
	if e.TerminatedAt != nil {
		s := e.TerminatedAt.Format(shared.DateLayout)
		resp.TerminatedAt = &s
	}
	return resp
}

// ToEmployeeResponses converts a slice of domain employees
func ToEmployeeResponses(employees []payroll.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out
}

// ToRecordResponse converts a domain payroll record
func ToRecordResponse(r *payroll.Record) RecordResponse {
	return RecordResponse{
		ID:            r.ID,
		BranchID:      r.BranchID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Period:        r.Period,
		BaseSalary:    r.BaseSalary,
		Allowances:    r.Allowances,
		Bonuses:       r.Bonuses,
		Deductions:    r.Deductions,
		Gross:         r.Gross(),
		NetPay:        r.NetPay,
		Status:        string(r.Status),
		ApprovedAt:    r.ApprovedAt,
		ApprovedBy:    r.ApprovedBy,
		PaidAt:        r.PaidAt,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

// ToRecordResponses converts a slice of domain payroll records
func ToRecordResponses(records []payroll.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return out
}
