package finance

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	shared.Filter
	Scope     shared.Scope
	Type      TransactionType
	Category  string
	ContactID *uuid.UUID
	Source    TransactionSource
	From      *time.Time
	To        *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// CategoryTotal is the sum of one category of one type
type CategoryTotal struct {
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// PeriodTotal is income and expense over one interval of a trend
type PeriodTotal struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// TransactionRepository persists transactions
type TransactionRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Transaction, error)
	FindBySource(ctx context.Context, source TransactionSource, sourceID uuid.UUID) (*Transaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
	Save(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context, scope shared.Scope, txType TransactionType) ([]string, error)
	SumByCategory(ctx context.Context, filter TransactionFilter) ([]CategoryTotal, error)
	// Trend buckets totals by interval, which is "day" or "month"
	Trend(ctx context.Context, filter TransactionFilter, interval string) ([]PeriodTotal, error)
}

// DebtFilter narrows debt listings
type DebtFilter struct {
	shared.Filter
	Scope    shared.Scope
	Status   DebtStatus
	Migrated *bool
}

// DebtRepository persists legacy debts and their payments
type DebtRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Debt, error)
	FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Debt, error)
	FindAll(ctx context.Context, filter DebtFilter) ([]Debt, error)
	Count(ctx context.Context, filter DebtFilter) (int64, error)
	// FindUnmigrated returns debts with their payments loaded, oldest first
	FindUnmigrated(ctx context.Context, scope shared.Scope) ([]Debt, error)
	Save(ctx context.Context, d *Debt) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddPayment(ctx context.Context, p *DebtPayment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
}

// DocumentFilter narrows payable and receivable listings
type DocumentFilter struct {
	shared.Filter
	Scope       shared.Scope
	Status      DocumentStatus
	ContactID   *uuid.UUID
	OverdueOnly bool
	DueFrom     *time.Time
	DueTo       *time.Time
	AsOf        time.Time
}

// DocumentSummary reports open totals of payables or receivables
type DocumentSummary struct {
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalSettled      decimal.Decimal `json:"total_settled"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	OpenCount         int64           `json:"open_count"`
	OverdueCount      int64           `json:"overdue_count"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	DueSoonCount      int64           `json:"due_soon_count"`
	DueSoonAmount     decimal.Decimal `json:"due_soon_amount"`
	DueSoonWindowDays int             `json:"due_soon_window_days"`
}

// AccountPayableRepository persists payables and their payments
type AccountPayableRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AccountPayable, error)
	FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AccountPayable, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]AccountPayable, error)
	Count(ctx context.Context, filter DocumentFilter) (int64, error)
	// FindOpen returns unpaid payables, optionally limited to those due on or before dueBefore
	FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]AccountPayable, error)
	Save(ctx context.Context, ap *AccountPayable) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddPayment(ctx context.Context, p *PayablePayment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*DocumentSummary, error)
	NextNumber(ctx context.Context, date time.Time) (string, error)
	CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error)
	OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error)
}

// AccountReceivableRepository persists receivables and their receipts
type AccountReceivableRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AccountReceivable, error)
	FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AccountReceivable, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]AccountReceivable, error)
	Count(ctx context.Context, filter DocumentFilter) (int64, error)
	FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]AccountReceivable, error)
	Save(ctx context.Context, ar *AccountReceivable) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddReceipt(ctx context.Context, r *ReceivableReceipt) error
	DeleteReceipt(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*DocumentSummary, error)
	NextNumber(ctx context.Context, date time.Time) (string, error)
	CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error)
	OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error)
}
