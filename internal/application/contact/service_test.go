package contact

import (
	"context"
	"strings"
	"testing"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/shared"
	csvimport "github.com/erp/accounting/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

type MockDocumentLedger struct {
	mock.Mock
}

func (m *MockDocumentLedger) CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentLedger) OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type fixture struct {
	svc         *Service
	repo        *MockContactRepository
	payables    *MockDocumentLedger
	receivables *MockDocumentLedger
	branchID    uuid.UUID
	actor       shared.Actor
}

func newFixture() *fixture {
	f := &fixture{
		repo:        new(MockContactRepository),
		payables:    new(MockDocumentLedger),
		receivables: new(MockDocumentLedger),
		branchID:    uuid.New(),
	}
	f.actor = shared.Actor{UserID: uuid.New(), Username: "clerk", BranchID: &f.branchID}
	f.svc = NewService(f.repo, f.payables, f.receivables, zap.NewNop())
	return f
}

func (f *fixture) contact(t *testing.T, typ contact.Type, name string) *contact.Contact {
	t.Helper()
	c, err := contact.NewContact(f.branchID, f.actor.UserID, typ, name, contact.Details{})
	require.NoError(t, err)
	c.RestoreVersion(1)
	return c
}

func TestService_Create_DefaultsToAccountantBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("FindByNormalizedName", ctx, f.branchID, "acme supplies").Return(nil, shared.ErrNotFound)
	f.repo.On("Save", ctx, mock.AnythingOfType("*contact.Contact")).Return(nil)

	resp, err := f.svc.Create(ctx, f.actor, CreateContactRequest{Type: "SUPPLIER", Name: " ACME   Supplies ", Email: "Sales@Acme.test"})

	require.NoError(t, err)
	assert.Equal(t, f.branchID, resp.BranchID)
	assert.Equal(t, "ACME Supplies", resp.Name)
	assert.Equal(t, "sales@acme.test", resp.Email)
	assert.Equal(t, f.actor.UserID, *resp.CreatedBy)
}

func TestService_Create_AccountantCannotWriteOtherBranch(t *testing.T) {
	f := newFixture()
	other := uuid.New()

	_, err := f.svc.Create(context.Background(), f.actor, CreateContactRequest{BranchID: &other, Type: "CUSTOMER", Name: "X"})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestService_Create_AdminMustNameBranch(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), shared.Actor{IsAdmin: true}, CreateContactRequest{Type: "CUSTOMER", Name: "X"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "branch_id", de.Details["field"])
}

func TestService_Create_DuplicateNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	existing := f.contact(t, contact.TypeCustomer, "Acme")

	f.repo.On("FindByNormalizedName", ctx, f.branchID, "acme").Return(existing, nil)

	_, err := f.svc.Create(ctx, f.actor, CreateContactRequest{Type: "SUPPLIER", Name: "ACME"})

	assert.ErrorIs(t, err, contact.ErrDuplicateName)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Update_RenameToOwnNameIsAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.contact(t, contact.TypeCustomer, "Acme")
	scope := f.actor.Scope()
	name := "ACME Ltd"
	inactive := false

	f.repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
	f.repo.On("FindByNormalizedName", ctx, f.branchID, "acme ltd").Return(c, nil)
	f.repo.On("Save", ctx, c).Return(nil)

	resp, err := f.svc.Update(ctx, scope, c.ID, UpdateContactRequest{Name: &name, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, "ACME Ltd", resp.Name)
	assert.False(t, resp.IsActive)
	assert.Equal(t, 2, resp.Version)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("in use", func(t *testing.T) {
		f := newFixture()
		c := f.contact(t, contact.TypeBoth, "Acme")
		scope := f.actor.Scope()
		f.repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
		f.payables.On("CountByContact", ctx, c.ID).Return(int64(2), nil)
		f.receivables.On("CountByContact", ctx, c.ID).Return(int64(0), nil)

		err := f.svc.Delete(ctx, scope, c.ID)

		assert.ErrorIs(t, err, contact.ErrContactInUse)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused", func(t *testing.T) {
		f := newFixture()
		c := f.contact(t, contact.TypeBoth, "Acme")
		scope := f.actor.Scope()
		f.repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
		f.payables.On("CountByContact", ctx, c.ID).Return(int64(0), nil)
		f.receivables.On("CountByContact", ctx, c.ID).Return(int64(0), nil)
		f.repo.On("Delete", ctx, c.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, scope, c.ID))
		f.repo.AssertExpectations(t)
	})
}

func TestService_Balance(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.contact(t, contact.TypeBoth, "Acme")
	scope := f.actor.Scope()

	f.repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
	f.payables.On("OutstandingByContact", ctx, c.ID).Return(decimal.RequireFromString("150.005"), nil)
	f.receivables.On("OutstandingByContact", ctx, c.ID).Return(decimal.NewFromInt(400), nil)

	balance, err := f.svc.Balance(ctx, scope, c.ID)

	require.NoError(t, err)
	assert.True(t, balance.PayableOutstanding.Equal(decimal.RequireFromString("150.01")))
	assert.True(t, balance.ReceivableOutstanding.Equal(decimal.NewFromInt(400)))
	assert.True(t, balance.Net.Equal(decimal.RequireFromString("249.99")), "net %s", balance.Net)
	assert.True(t, balance.Net.Equal(balance.ReceivableOutstanding.Sub(balance.PayableOutstanding)))
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	existing := f.contact(t, contact.TypeSupplier, "Old Supplier")

	csv := strings.Join([]string{
		"Name,Type,Phone,Email,Tax Number",
		"Acme,supplier,555-1,acme@example.com,TX1",
		"Beta Co,,555-2,,",
		",CUSTOMER,,,",
		"acme,CUSTOMER,,,",
		"Gamma,VENDOR,,,",
		"Delta,BOTH,,not-an-email,",
		"Old  Supplier,SUPPLIER,,,",
		"",
	}, "\n")

	f.repo.On("FindByNormalizedName", ctx, f.branchID, "old supplier").Return(existing, nil)
	f.repo.On("FindByNormalizedName", ctx, f.branchID, mock.Anything).Return(nil, shared.ErrNotFound)
	var saved []*contact.Contact
	f.repo.On("Save", ctx, mock.AnythingOfType("*contact.Contact")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*contact.Contact)) }).
		Return(nil)

	result, err := f.svc.Import(ctx, f.actor, nil, strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalRows)
	assert.Equal(t, 2, result.ImportedRows)
	assert.Equal(t, 5, result.ErrorRows)
	require.Len(t, saved, 2)
	assert.Equal(t, contact.TypeSupplier, saved[0].Type)
	assert.Equal(t, "TX1", saved[0].TaxNumber)
	assert.Equal(t, contact.TypeCustomer, saved[1].Type)

	codes := map[int]string{}
	for _, e := range result.Errors {
		codes[e.Row] = e.Code
	}
	assert.Equal(t, csvimport.ErrCodeRequiredField, codes[4])
	assert.Equal(t, csvimport.ErrCodeDuplicateInFile, codes[5])
	assert.Equal(t, csvimport.ErrCodeInvalidValue, codes[6])
	assert.Equal(t, csvimport.ErrCodeInvalidFormat, codes[7])
	assert.Equal(t, csvimport.ErrCodeDuplicateInDB, codes[8])
}

func TestService_Import_RequiresNameColumn(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Import(context.Background(), f.actor, nil, strings.NewReader("phone,email\n1,a@b.co\n"))

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
}
