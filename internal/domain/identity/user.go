package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Login lockout policy
const (
	MaxFailedAttempts = 5
	LockDuration      = 15 * time.Minute
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Identity errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is deactivated")
	ErrBranchRequired     = shared.NewDomainError("BRANCH_REQUIRED", "Accountants must be assigned to a branch")
	ErrSelfModification   = shared.NewDomainError("SELF_MODIFICATION", "You cannot deactivate or delete your own account")
)

// User is an operator of the system
type User struct {
	shared.BaseAggregateRoot
	Username       string
	Email          string
	FullName       string
	PasswordHash   string
	Role           Role
	BranchID       *uuid.UUID
	IsActive       bool
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user. Accountants must belong to a branch.
func NewUser(username, password string, role Role, branchID *uuid.UUID) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		IsActive:          true,
	}
	if err := u.AssignRole(role, branchID); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	return u, nil
}

// SetProfile updates email and full name
func (u *User) SetProfile(email, fullName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if len(email) > 200 || !emailPattern.MatchString(email) {
			return shared.NewValidationError("email", "Invalid email format")
		}
	}
	fullName = shared.CleanName(fullName)
	if len(fullName) > 200 {
		return shared.NewValidationError("full_name", "Full name cannot exceed 200 characters")
	}
	u.Email = email
	u.FullName = fullName
	u.Touch()
	u.IncrementVersion()
	return nil
}

// AssignRole sets the role and branch binding together so the pair stays consistent
func (u *User) AssignRole(role Role, branchID *uuid.UUID) error {
	if !role.IsValid() {
		return shared.NewValidationError("role", "role must be ADMIN or ACCOUNTANT")
	}
	if role == RoleAccountant && (branchID == nil || *branchID == uuid.Nil) {
		return ErrBranchRequired
	}
	u.Role = role
	if branchID != nil && *branchID != uuid.Nil {
		id := *branchID
		u.BranchID = &id
	} else {
		u.BranchID = nil
	}
	u.Touch()
	u.IncrementVersion()
	return nil
}

// IsAdmin reports whether the user has cross-branch access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ChangePassword replaces the password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return ErrInvalidCredentials
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks a plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate re-enables the account and clears any lock
func (u *User) Activate() {
	u.IsActive = true
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	u.IncrementVersion()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
	u.IncrementVersion()
}

// IsLocked reports whether a lockout is in effect at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin checks account state before a password is compared
func (u *User) CanLogin(now time.Time) error {
	if !u.IsActive {
		return ErrAccountInactive
	}
	if u.IsLocked(now) {
		return ErrAccountLocked
	}
	return nil
}

// RecordLoginSuccess resets the failure counter
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and returns true when the account becomes locked
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedAttempts++
	u.Touch()
	u.IncrementVersion()
	if u.FailedAttempts >= MaxFailedAttempts {
		until := now.Add(LockDuration)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// DisplayName returns the full name or the username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewValidationError("username", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewValidationError("username", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewValidationError("username", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

// ValidatePassword enforces the password policy: 8 characters minimum, and
// at most the 72 bytes bcrypt actually hashes
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("password", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("password", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
