package payroll

import (
	"context"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/payroll"
)

// TransactionScope runs payroll writes in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories available inside a payroll transaction.
// Paying a record writes the record and its expense transaction together.
type TransactionalRepositories interface {
	EmployeeRepo() payroll.EmployeeRepository
	PayrollRepo() payroll.RecordRepository
	TransactionRepo() finance.TransactionRepository
}

// NoOpTransactionScope runs functions directly against the given repositories.
// This is useful for testing.
type NoOpTransactionScope struct {
	employees    payroll.EmployeeRepository
	records      payroll.RecordRepository
	transactions finance.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(employees payroll.EmployeeRepository, records payroll.RecordRepository, transactions finance.TransactionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{employees: employees, records: records, transactions: transactions}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) EmployeeRepo() payroll.EmployeeRepository { return s.employees }
func (s *NoOpTransactionScope) PayrollRepo() payroll.RecordRepository { return s.records }
func (s *NoOpTransactionScope) TransactionRepo() finance.TransactionRepository { return s.transactions }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
