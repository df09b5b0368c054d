package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/branch"
	"github.com/erp/accounting/internal/domain/identity"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLastAdmin is returned when removing the only remaining administrator
var ErrLastAdmin = shared.NewDomainError("LAST_ADMIN", "At least one active administrator must remain")

// UserService manages user accounts. Every operation is admin-only.
type UserService struct {
	userRepo   identity.UserRepository
	branchRepo branch.Repository
	blacklist  auth.TokenBlacklist
	revokeTTL  time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new UserService. revokeTTL bounds how long a revocation is kept
// and should match the refresh token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	branchRepo branch.Repository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		blacklist:  blacklist,
		revokeTTL:  revokeTTL,
		logger:     logger,
	}
}

// Create creates a user. Accountants must be bound to an existing branch.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role, ok := identity.ParseRole(req.Role)
	if !ok {
		return nil, shared.NewValidationError("role", "role must be ADMIN or ACCOUNTANT")
	}
	if err := s.checkBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if err := s.checkEmail(ctx, req.Email); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Password, role, req.BranchID)
	if err != nil {
		return nil, err
	}
	if err := user.SetProfile(req.Email, req.FullName); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "username"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		BranchID: filter.BranchID,
		IsActive: filter.IsActive,
	}
	if filter.Role != "" {
		role, ok := identity.ParseRole(filter.Role)
		if !ok {
			return nil, 0, shared.NewValidationError("role", "role must be ADMIN or ACCOUNTANT")
		}
		domainFilter.Role = role
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update changes profile fields and, when given, the role and branch binding.
// A role or branch change revokes the user's tokens so new claims are issued.
func (s *UserService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email, fullName := user.Email, user.FullName
	if req.Email != nil {
		email = *req.Email
	}
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if !strings.EqualFold(strings.TrimSpace(email), user.Email) {
		if err := s.checkEmail(ctx, email); err != nil {
			return nil, err
		}
	}
	if err := user.SetProfile(email, fullName); err != nil {
		return nil, err
	}

	accessChanged := false
	if req.Role != nil || req.BranchID != nil {
		role := user.Role
		if req.Role != nil {
			parsed, ok := identity.ParseRole(*req.Role)
			if !ok {
				return nil, shared.NewValidationError("role", "role must be ADMIN or ACCOUNTANT")
			}
			role = parsed
		}
		branchID := user.BranchID
		if req.BranchID != nil {
			branchID = req.BranchID
		}
		if role == identity.RoleAdmin && req.BranchID == nil {
			branchID = nil
		}
		if user.ID == actor.UserID && role != user.Role {
			return nil, identity.ErrSelfModification
		}
		if user.IsAdmin() && user.IsActive && role != identity.RoleAdmin {
			if err := s.ensureOtherAdmin(ctx); err != nil {
				return nil, err
			}
		}
		if err := s.checkBranch(ctx, branchID); err != nil {
			return nil, err
		}
		accessChanged = role != user.Role || !sameBranch(branchID, user.BranchID)
		if err := user.AssignRole(role, branchID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if accessChanged {
		s.revoke(ctx, user.ID)
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password and signs the user out everywhere
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revoke(ctx, user.ID)
	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

// Activate re-enables an account and clears any lockout
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables an account. Admins cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) (*UserResponse, error) {
	if id == actor.UserID {
		return nil, identity.ErrSelfModification
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() && user.IsActive {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revoke(ctx, user.ID)

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return identity.ErrSelfModification
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() && user.IsActive {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) checkBranch(ctx context.Context, branchID *uuid.UUID) error {
	if branchID == nil || *branchID == uuid.Nil {
		return nil
	}
	if _, err := s.branchRepo.FindByID(ctx, *branchID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("branch_id", "branch does not exist")
		}
		return err
	}
	return nil
}

func (s *UserService) checkEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Email is already in use")
	}
	return nil
}

// ensureOtherAdmin refuses to demote, deactivate or delete the last administrator
func (s *UserService) ensureOtherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *UserService) revoke(ctx context.Context, userID uuid.UUID) {
	if err := s.blacklist.RevokeUser(ctx, userID, s.revokeTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func sameBranch(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
