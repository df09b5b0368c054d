package models

import (
	"time"

	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for employees
type EmployeeModel struct {
	BranchAggregateModel
	Code         string          `gorm:"type:varchar(30);not null;index"`
	FullName     string          `gorm:"type:varchar(150);not null"`
	Position     string          `gorm:"type:varchar(100)"`
	Department   string          `gorm:"type:varchar(100);index"`
	Phone        string          `gorm:"type:varchar(50)"`
	Email        string          `gorm:"type:varchar(150)"`
	HireDate     time.Time       `gorm:"type:date;not null"`
	BaseSalary   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BankAccount  string          `gorm:"type:varchar(50)"`
	Status       string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	TerminatedAt *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the model to a domain Employee
func (m *EmployeeModel) ToDomain() *payroll.Employee {
	e := &payroll.Employee{
		Code:         m.Code,
		FullName:     m.FullName,
		Position:     m.Position,
		Department:   m.Department,
		Phone:        m.Phone,
		Email:        m.Email,
		HireDate:     m.HireDate,
		BaseSalary:   m.BaseSalary,
		BankAccount:  m.BankAccount,
		Status:       payroll.EmployeeStatus(m.Status),
		TerminatedAt: m.TerminatedAt,
	}
	m.PopulateBranchAggregateRoot(&e.BranchAggregateRoot)
	return e
}

// EmployeeModelFromDomain converts a domain Employee to its model
func EmployeeModelFromDomain(e *payroll.Employee) *EmployeeModel {
	m := &EmployeeModel{
		Code:         e.Code,
		FullName:     e.FullName,
		Position:     e.Position,
		Department:   e.Department,
		Phone:        e.Phone,
		Email:        e.Email,
		HireDate:     e.HireDate,
		BaseSalary:   e.BaseSalary,
		BankAccount:  e.BankAccount,
		Status:       string(e.Status),
		TerminatedAt: e.TerminatedAt,
	}
	m.FromDomainBranchAggregateRoot(e.BranchAggregateRoot)
	return m
}

// PayrollRecordModel is one employee's pay for one month
type PayrollRecordModel struct {
	BranchAggregateModel
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_employee_period,priority:1"`
	Period        string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_payroll_employee_period,priority:2;index"`
	BaseSalary    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Allowances    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Bonuses       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Deductions    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	NetPay        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ApprovedAt    *time.Time      `gorm:"column:approved_at"`
	ApprovedBy    *uuid.UUID      `gorm:"type:uuid"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	TransactionID *uuid.UUID      `gorm:"type:uuid"`
	Notes         string          `gorm:"type:text"`
	Employee      *EmployeeModel  `gorm:"foreignKey:EmployeeID;references:ID"`
}

// TableName returns the table name for GORM
func (PayrollRecordModel) TableName() string {
	return "payroll_records"
}

// ToDomain converts the model to a domain Record
func (m *PayrollRecordModel) ToDomain() *payroll.Record {
	r := &payroll.Record{
		EmployeeID:    m.EmployeeID,
		Period:        m.Period,
		BaseSalary:    m.BaseSalary,
		Allowances:    m.Allowances,
		Bonuses:       m.Bonuses,
		Deductions:    m.Deductions,
		NetPay:        m.NetPay,
		Status:        payroll.RecordStatus(m.Status),
		ApprovedAt:    m.ApprovedAt,
		ApprovedBy:    m.ApprovedBy,
		PaidAt:        m.PaidAt,
		TransactionID: m.TransactionID,
		Notes:         m.Notes,
	}
	m.PopulateBranchAggregateRoot(&r.BranchAggregateRoot)
	if m.Employee != nil {
		r.EmployeeName = m.Employee.FullName
	}
	return r
}

// PayrollRecordModelFromDomain converts a domain Record to its model
func PayrollRecordModelFromDomain(r *payroll.Record) *PayrollRecordModel {
	m := &PayrollRecordModel{
		EmployeeID:    r.EmployeeID,
		Period:        r.Period,
		BaseSalary:    r.BaseSalary,
		Allowances:    r.Allowances,
		Bonuses:       r.Bonuses,
		Deductions:    r.Deductions,
		NetPay:        r.NetPay,
		Status:        string(r.Status),
		ApprovedAt:    r.ApprovedAt,
		ApprovedBy:    r.ApprovedBy,
		PaidAt:        r.PaidAt,
		TransactionID: r.TransactionID,
		Notes:         r.Notes,
	}
	m.FromDomainBranchAggregateRoot(r.BranchAggregateRoot)
	return m
}
