package identity

import "strings"

// Role is the coarse-grained permission level of a user
type Role string

const (
	// RoleAdmin manages every branch, all users and the smart report catalogue
	RoleAdmin Role = "ADMIN"
	// RoleAccountant works inside a single branch
	RoleAccountant Role = "ACCOUNTANT"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes a role name
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// AllRoles lists every role in display order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleAccountant}
}
