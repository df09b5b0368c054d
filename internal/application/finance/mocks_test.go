package finance

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Transaction, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBySource(ctx context.Context, source finance.TransactionSource, sourceID uuid.UUID) (*finance.Transaction, error) {
	args := m.Called(ctx, source, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *finance.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransactionRepository) Categories(ctx context.Context, scope shared.Scope, txType finance.TransactionType) ([]string, error) {
	args := m.Called(ctx, scope, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) SumByCategory(ctx context.Context, filter finance.TransactionFilter) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}

func (m *MockTransactionRepository) Trend(ctx context.Context, filter finance.TransactionFilter, interval string) ([]finance.PeriodTotal, error) {
	args := m.Called(ctx, filter, interval)
	return args.Get(0).([]finance.PeriodTotal), args.Error(1)
}

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Debt, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.Debt, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Debt), args.Error(1)
}

func (m *MockDebtRepository) FindAll(ctx context.Context, filter finance.DebtFilter) ([]finance.Debt, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Debt), args.Error(1)
}

func (m *MockDebtRepository) Count(ctx context.Context, filter finance.DebtFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDebtRepository) FindUnmigrated(ctx context.Context, scope shared.Scope) ([]finance.Debt, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]finance.Debt), args.Error(1)
}

func (m *MockDebtRepository) Save(ctx context.Context, d *finance.Debt) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDebtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDebtRepository) AddPayment(ctx context.Context, p *finance.DebtPayment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDebtRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPayableRepository struct {
	mock.Mock
}

func (m *MockPayableRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) FindAll(ctx context.Context, filter finance.DocumentFilter) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) Count(ctx context.Context, filter finance.DocumentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayableRepository) FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, scope, dueBefore)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *MockPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *MockPayableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPayableRepository) AddPayment(ctx context.Context, p *finance.PayablePayment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPayableRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPayableRepository) Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*finance.DocumentSummary, error) {
	args := m.Called(ctx, scope, asOf, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.DocumentSummary), args.Error(1)
}

func (m *MockPayableRepository) NextNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

func (m *MockPayableRepository) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayableRepository) OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) FindAll(ctx context.Context, filter finance.DocumentFilter) ([]finance.AccountReceivable, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) Count(ctx context.Context, filter finance.DocumentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceivableRepository) FindOpen(ctx context.Context, scope shared.Scope, dueBefore *time.Time) ([]finance.AccountReceivable, error) {
	args := m.Called(ctx, scope, dueBefore)
	return args.Get(0).([]finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	return m.Called(ctx, ar).Error(0)
}

func (m *MockReceivableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReceivableRepository) AddReceipt(ctx context.Context, r *finance.ReceivableReceipt) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReceivableRepository) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReceivableRepository) Summary(ctx context.Context, scope shared.Scope, asOf time.Time, windowDays int) (*finance.DocumentSummary, error) {
	args := m.Called(ctx, scope, asOf, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.DocumentSummary), args.Error(1)
}

func (m *MockReceivableRepository) NextNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

func (m *MockReceivableRepository) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceivableRepository) OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*contact.Contact, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByNormalizedName(ctx context.Context, branchID uuid.UUID, normalized string) (*contact.Contact, error) {
	args := m.Called(ctx, branchID, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter contact.Filter) ([]contact.Contact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) Count(ctx context.Context, filter contact.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type MockAttachmentStorage struct {
	mock.Mock
}

func (m *MockAttachmentStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAttachmentStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAttachmentStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockAttachmentStorage) Enabled() bool {
	return m.Called().Bool(0)
}

func newSupplier(branchID uuid.UUID, contactType contact.Type) *contact.Contact {
	c, err := contact.NewContact(branchID, uuid.New(), contactType, "Acme Supplies", contact.Details{})
	if err != nil {
		panic(err)
	}
	c.RestoreVersion(1)
	c.ClearDomainEvents()
	return c
}
