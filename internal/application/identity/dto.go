package identity

import (
	"time"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=1,max=72"`
	IP       string `json:"-"` // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the identity returned after login and by /auth/me
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the tokens to revoke on logout
type LogoutInput struct {
	UserID       uuid.UUID     `json:"-"`
	TokenJTI     string        `json:"-"`
	TokenTTL     time.Duration `json:"-"` // remaining lifetime of the access token
	RefreshToken string        `json:"refresh_token"`
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username string     `json:"username" binding:"required,min=3,max=100"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Email    string     `json:"email" binding:"omitempty,email,max=200"`
	FullName string     `json:"full_name" binding:"max=200"`
	Role     string     `json:"role" binding:"required,oneof=ADMIN ACCOUNTANT"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// UpdateUserRequest represents a request to update a user. Role and branch change together.
type UpdateUserRequest struct {
	Email    *string    `json:"email" binding:"omitempty,email,max=200"`
	FullName *string    `json:"full_name" binding:"omitempty,max=200"`
	Role     *string    `json:"role" binding:"omitempty,oneof=ADMIN ACCOUNTANT"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// ResetPasswordRequest sets a new password without the old one
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string     `form:"search"`
	Role     string     `form:"role" binding:"omitempty,oneof=ADMIN ACCOUNTANT"`
	BranchID *uuid.UUID `form:"branch_id"`
	IsActive *bool      `form:"is_active"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=username full_name role created_at last_login_at"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsLocked    bool       `json:"is_locked"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToUserInfo converts a domain User to UserInfo
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role.String(),
		BranchID:    u.BranchID,
	}
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role.String(),
		BranchID:    u.BranchID,
		IsActive:    u.IsActive,
		IsLocked:    u.IsLocked(time.Now()),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
