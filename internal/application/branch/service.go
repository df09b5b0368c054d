package branch

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/accounting/internal/domain/branch"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages branches. Writes are admin-only and enforced by the router.
type Service struct {
	repo   branch.Repository
	logger *zap.Logger
}

// NewService creates a new branch Service
func NewService(repo branch.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Create creates a new branch with a unique code and name
func (s *Service) Create(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error) {
	b, err := branch.NewBranch(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, b.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch with this code already exists")
	}
	exists, err = s.repo.ExistsByName(ctx, b.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch with this name already exists")
	}

	b.Address = strings.TrimSpace(req.Address)
	b.Phone = strings.TrimSpace(req.Phone)

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Branch created", zap.String("branch_id", b.ID.String()), zap.String("code", b.Code))

	response := ToBranchResponse(b)
	return &response, nil
}

// GetByID returns a branch. Accountants may only read their own.
func (s *Service) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BranchResponse, error) {
	if !actor.Scope().Allows(id) {
		return nil, shared.ErrForbidden
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBranchResponse(b)
	return &response, nil
}

// List returns every branch for admins and only the own branch for accountants
func (s *Service) List(ctx context.Context, actor shared.Actor, filter BranchListFilter) ([]BranchResponse, int64, error) {
	if !actor.IsAdmin {
		if actor.BranchID == nil {
			return nil, 0, shared.ErrForbidden
		}
		b, err := s.repo.FindByID(ctx, *actor.BranchID)
		if err != nil {
			return nil, 0, err
		}
		return []BranchResponse{ToBranchResponse(b)}, 1, nil
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	branches, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBranchResponses(branches), total, nil
}

// Update changes the name, address or phone of a branch
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, address, phone := b.Name, b.Address, b.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Phone != nil {
		phone = *req.Phone
	}

	if shared.NormalizeName(name) != shared.NormalizeName(b.Name) {
		exists, err := s.repo.ExistsByName(ctx, shared.CleanName(name))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch with this name already exists")
		}
	}

	if err := b.Update(name, address, phone); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	response := ToBranchResponse(b)
	return &response, nil
}

// Activate re-enables a branch
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a branch without removing its records
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id uuid.UUID, active bool) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		b.Activate()
	} else {
		b.Deactivate()
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	response := ToBranchResponse(b)
	return &response, nil
}

// Delete removes a branch that nothing references
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return branch.ErrBranchInUse.WithDetail("references", refs)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	s.logger.Info("Branch deleted", zap.String("branch_id", id.String()))
	return nil
}
