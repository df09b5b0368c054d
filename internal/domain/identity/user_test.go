package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	branchID := uuid.New()

	tests := []struct {
		name     string
		username string
		password string
		role     Role
		branchID *uuid.UUID
		ok       bool
		wantErr  error
	}{
		{name: "admin without branch", username: "Root", password: "secret123", role: RoleAdmin, ok: true},
		{name: "accountant with branch", username: "acc.one", password: "secret123", role: RoleAccountant, branchID: &branchID, ok: true},
		{name: "accountant without branch", username: "acc.two", password: "secret123", role: RoleAccountant, wantErr: ErrBranchRequired},
		{name: "short password", username: "acc.three", password: "s3", role: RoleAdmin},
		{name: "letters only is long enough", username: "acc.four", password: "accountant-pass", role: RoleAdmin, ok: true},
		{name: "seven characters", username: "acc.six", password: "abcdefg", role: RoleAdmin},
		{name: "past bcrypt limit", username: "acc.seven", password: strings.Repeat("p", 73), role: RoleAdmin},
		{name: "invalid role", username: "acc.five", password: "secret123", role: Role("OWNER")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.username, tt.password, tt.role, tt.branchID)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.role, u.Role)
				assert.True(t, u.IsActive)
				assert.NotEqual(t, tt.password, u.PasswordHash)
				assert.True(t, u.VerifyPassword(tt.password))
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUser_UsernameIsLowercased(t *testing.T) {
	u, err := NewUser("  Alice ", "secret123", RoleAdmin, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Nil(t, u.BranchID)
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser("alice", "secret123", RoleAdmin, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, u.ChangePassword("wrong-pass1", "newsecret1"), ErrInvalidCredentials)
	require.NoError(t, u.ChangePassword("secret123", "newsecret1"))
	assert.True(t, u.VerifyPassword("newsecret1"))
	assert.False(t, u.VerifyPassword("secret123"))
}

func TestUser_LoginLockout(t *testing.T) {
	u, err := NewUser("alice", "secret123", RoleAdmin, nil)
	require.NoError(t, err)
	now := time.Now()

	for i := 0; i < MaxFailedAttempts-1; i++ {
		assert.False(t, u.RecordLoginFailure(now))
	}
	assert.True(t, u.RecordLoginFailure(now))
	assert.ErrorIs(t, u.CanLogin(now), ErrAccountLocked)
	assert.NoError(t, u.CanLogin(now.Add(LockDuration+time.Second)))

	u.RecordLoginSuccess(now)
	assert.Equal(t, 0, u.FailedAttempts)
	assert.Nil(t, u.LockedUntil)
}

func TestUser_Deactivate(t *testing.T) {
	u, err := NewUser("alice", "secret123", RoleAdmin, nil)
	require.NoError(t, err)

	u.Deactivate()
	assert.ErrorIs(t, u.CanLogin(time.Now()), ErrAccountInactive)

	u.Activate()
	assert.NoError(t, u.CanLogin(time.Now()))
}

func TestUser_AssignRole(t *testing.T) {
	branchID := uuid.New()
	u, err := NewUser("alice", "secret123", RoleAccountant, &branchID)
	require.NoError(t, err)

	require.NoError(t, u.AssignRole(RoleAdmin, nil))
	assert.True(t, u.IsAdmin())
	assert.Nil(t, u.BranchID)

	assert.ErrorIs(t, u.AssignRole(RoleAccountant, nil), ErrBranchRequired)
}

func TestUser_SetProfile(t *testing.T) {
	u, err := NewUser("alice", "secret123", RoleAdmin, nil)
	require.NoError(t, err)

	require.NoError(t, u.SetProfile(" Alice@Example.com ", " Alice  Smith "))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice Smith", u.DisplayName())

	assert.Error(t, u.SetProfile("not-an-email", ""))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" accountant ")
	assert.True(t, ok)
	assert.Equal(t, RoleAccountant, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
}
