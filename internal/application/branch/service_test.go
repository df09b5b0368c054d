package branch

import (
	"context"
	"testing"

	"github.com/erp/accounting/internal/domain/branch"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByCode(ctx context.Context, code string) (*branch.Branch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]branch.Branch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBranchRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func newTestBranch(t *testing.T) *branch.Branch {
	t.Helper()
	b, err := branch.NewBranch("hq", "Head Office")
	require.NoError(t, err)
	b.RestoreVersion(1)
	return b
}

func accountantOf(branchID uuid.UUID) shared.Actor {
	return shared.Actor{UserID: uuid.New(), Username: "clerk", BranchID: &branchID}
}

func TestService_Create_Success(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "HQ").Return(false, nil)
	repo.On("ExistsByName", ctx, "Head Office").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*branch.Branch")).Return(nil)

	resp, err := svc.Create(ctx, CreateBranchRequest{Code: "hq", Name: "  Head   Office ", Phone: " 555 "})

	require.NoError(t, err)
	assert.Equal(t, "HQ", resp.Code)
	assert.Equal(t, "Head Office", resp.Name)
	assert.Equal(t, "555", resp.Phone)
	assert.True(t, resp.IsActive)
	repo.AssertExpectations(t)
}

func TestService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "HQ").Return(true, nil)

	_, err := svc.Create(ctx, CreateBranchRequest{Code: "HQ", Name: "Head Office"})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Create_DuplicateName(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "NORTH").Return(false, nil)
	repo.On("ExistsByName", ctx, "North").Return(true, nil)

	_, err := svc.Create(ctx, CreateBranchRequest{Code: "north", Name: "North"})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestService_Create_InvalidCode(t *testing.T) {
	svc := NewService(new(MockBranchRepository), nil)

	_, err := svc.Create(context.Background(), CreateBranchRequest{Code: "a b", Name: "North"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
}

func TestService_GetByID_AccountantScope(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	own := newTestBranch(t)
	actor := accountantOf(own.ID)

	repo.On("FindByID", ctx, own.ID).Return(own, nil)

	resp, err := svc.GetByID(ctx, actor, own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, resp.ID)

	_, err = svc.GetByID(ctx, actor, uuid.New())
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestService_List_AccountantSeesOwnBranchOnly(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	own := newTestBranch(t)

	repo.On("FindByID", ctx, own.ID).Return(own, nil)

	items, total, err := svc.List(ctx, accountantOf(own.ID), BranchListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, own.ID, items[0].ID)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestService_List_AdminAppliesDefaults(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	active := true

	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "code" && f.Filters["is_active"] == true
	})
	repo.On("FindAll", ctx, matchFilter).Return([]branch.Branch{*newTestBranch(t)}, nil)
	repo.On("Count", ctx, matchFilter).Return(int64(1), nil)

	items, total, err := svc.List(ctx, shared.Actor{IsAdmin: true}, BranchListFilter{IsActive: &active})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	repo.AssertExpectations(t)
}

func TestService_Update_RenameChecksUniqueness(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	b := newTestBranch(t)
	name := "Downtown"

	repo.On("FindByID", ctx, b.ID).Return(b, nil)
	repo.On("ExistsByName", ctx, "Downtown").Return(true, nil)

	_, err := svc.Update(ctx, b.ID, UpdateBranchRequest{Name: &name})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Update_SameNameDifferentCase(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	b := newTestBranch(t)
	name := "head office"
	address := "1 Main St"

	repo.On("FindByID", ctx, b.ID).Return(b, nil)
	repo.On("Save", ctx, b).Return(nil)

	resp, err := svc.Update(ctx, b.ID, UpdateBranchRequest{Name: &name, Address: &address})

	require.NoError(t, err)
	assert.Equal(t, "head office", resp.Name)
	assert.Equal(t, "1 Main St", resp.Address)
	assert.Equal(t, 2, resp.Version)
	repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
}

func TestService_Deactivate(t *testing.T) {
	repo := new(MockBranchRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()
	b := newTestBranch(t)

	repo.On("FindByID", ctx, b.ID).Return(b, nil)
	repo.On("Save", ctx, b).Return(nil)

	resp, err := svc.Deactivate(ctx, b.ID)

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		refs    int64
		wantErr error
	}{
		{"unreferenced", 0, nil},
		{"in use", 3, branch.ErrBranchInUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBranchRepository)
			svc := NewService(repo, nil)
			ctx := context.Background()
			b := newTestBranch(t)

			repo.On("FindByID", ctx, b.ID).Return(b, nil)
			repo.On("CountReferences", ctx, b.ID).Return(tt.refs, nil)
			if tt.wantErr == nil {
				repo.On("Delete", ctx, b.ID).Return(nil)
			}

			err := svc.Delete(ctx, b.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
