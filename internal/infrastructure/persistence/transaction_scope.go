package persistence

import (
	"context"

	appfinance "github.com/erp/accounting/internal/application/finance"
	appinventory "github.com/erp/accounting/internal/application/inventory"
	appmigration "github.com/erp/accounting/internal/application/migration"
	apppayroll "github.com/erp/accounting/internal/application/payroll"
	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/payroll"
	"gorm.io/gorm"
)

// GormTransactionScope runs a function inside one GORM transaction.
// R is the repository set the calling application package declares; every
// repository handed out is bound to the same *gorm.DB transaction.
type GormTransactionScope[R any] struct {
	db   *gorm.DB
	bind func(*gormTransactionalRepositories) R
}

// Execute runs fn in a transaction, rolling back when it returns an error
func (s *GormTransactionScope[R]) Execute(ctx context.Context, fn func(repos R) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(&gormTransactionalRepositories{tx: tx}))
	})
}

// NewFinanceTransactionScope creates the scope used for settlements and debt payments
func NewFinanceTransactionScope(db *gorm.DB) *GormTransactionScope[appfinance.TransactionalRepositories] {
	return &GormTransactionScope[appfinance.TransactionalRepositories]{
		db:   db,
		bind: func(r *gormTransactionalRepositories) appfinance.TransactionalRepositories { return r },
	}
}

// NewInventoryTransactionScope creates the scope used for stock movements
func NewInventoryTransactionScope(db *gorm.DB) *GormTransactionScope[appinventory.TransactionalRepositories] {
	return &GormTransactionScope[appinventory.TransactionalRepositories]{
		db:   db,
		bind: func(r *gormTransactionalRepositories) appinventory.TransactionalRepositories { return r },
	}
}

// NewPayrollTransactionScope creates the scope used for payroll generation and payment
func NewPayrollTransactionScope(db *gorm.DB) *GormTransactionScope[apppayroll.TransactionalRepositories] {
	return &GormTransactionScope[apppayroll.TransactionalRepositories]{
		db:   db,
		bind: func(r *gormTransactionalRepositories) apppayroll.TransactionalRepositories { return r },
	}
}

// NewMigrationTransactionScope creates the scope a debt migration run executes in
func NewMigrationTransactionScope(db *gorm.DB) *GormTransactionScope[appmigration.TransactionalRepositories] {
	return &GormTransactionScope[appmigration.TransactionalRepositories]{
		db:   db,
		bind: func(r *gormTransactionalRepositories) appmigration.TransactionalRepositories { return r },
	}
}

// gormTransactionalRepositories hands out repositories sharing one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) TransactionRepo() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) DebtRepo() finance.DebtRepository {
	return NewGormDebtRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayableRepo() finance.AccountPayableRepository {
	return NewGormAccountPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceivableRepo() finance.AccountReceivableRepository {
	return NewGormAccountReceivableRepository(r.tx)
}

func (r *gormTransactionalRepositories) ContactRepo() contact.Repository {
	return NewGormContactRepository(r.tx)
}

func (r *gormTransactionalRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) EmployeeRepo() payroll.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayrollRepo() payroll.RecordRepository {
	return NewGormPayrollRecordRepository(r.tx)
}

var (
	_ appfinance.TransactionScope          = (*GormTransactionScope[appfinance.TransactionalRepositories])(nil)
	_ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

	_ appinventory.TransactionScope          = (*GormTransactionScope[appinventory.TransactionalRepositories])(nil)
	_ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

	_ apppayroll.TransactionScope          = (*GormTransactionScope[apppayroll.TransactionalRepositories])(nil)
	_ apppayroll.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

	_ appmigration.TransactionScope          = (*GormTransactionScope[appmigration.TransactionalRepositories])(nil)
	_ appmigration.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
