package finance

import (
	"context"

	"github.com/erp/accounting/internal/domain/finance"
)

// TransactionScope runs a unit of work inside one database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the finance repositories bound to the current transaction.
//
// Settlements touch two aggregates at once: the payable or receivable with its new
// payment row, and the optional system transaction that books the cash movement.
type TransactionalRepositories interface {
	TransactionRepo() finance.TransactionRepository
	DebtRepo() finance.DebtRepository
	PayableRepo() finance.AccountPayableRepository
	ReceivableRepo() finance.AccountReceivableRepository
}

// NoOpTransactionScope runs the function against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	transactions finance.TransactionRepository
	debts        finance.DebtRepository
	payables     finance.AccountPayableRepository
	receivables  finance.AccountReceivableRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	transactions finance.TransactionRepository,
	debts finance.DebtRepository,
	payables finance.AccountPayableRepository,
	receivables finance.AccountReceivableRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transactions: transactions,
		debts:        debts,
		payables:     payables,
		receivables:  receivables,
	}
}

// Execute calls fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TransactionRepo returns the transaction repository
func (s *NoOpTransactionScope) TransactionRepo() finance.TransactionRepository {
	return s.transactions
}

// DebtRepo returns the debt repository
func (s *NoOpTransactionScope) DebtRepo() finance.DebtRepository {
	return s.debts
}

// PayableRepo returns the payable repository
func (s *NoOpTransactionScope) PayableRepo() finance.AccountPayableRepository {
	return s.payables
}

// ReceivableRepo returns the receivable repository
func (s *NoOpTransactionScope) ReceivableRepo() finance.AccountReceivableRepository {
	return s.receivables
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
