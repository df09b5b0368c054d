package migration

import (
	"context"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
)

// TransactionScope runs the whole migration in one database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories the migration writes through
type TransactionalRepositories interface {
	DebtRepo() finance.DebtRepository
	PayableRepo() finance.AccountPayableRepository
	ContactRepo() contact.Repository
}
