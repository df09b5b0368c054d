package branch

import (
	"regexp"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{2,20}$`)

// Branch is a physical business location. Most financial records belong to one.
type Branch struct {
	shared.BaseAggregateRoot
	Code     string
	Name     string
	Address  string
	Phone    string
	IsActive bool
}

// NewBranch creates an active branch
func NewBranch(code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return nil, shared.NewValidationError("code", "code must be 2-20 characters of letters, digits, '-' or '_'")
	}
	name = shared.CleanName(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("name", "name cannot exceed 100 characters")
	}
	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		IsActive:          true,
	}, nil
}

// Update changes the descriptive fields of the branch
func (b *Branch) Update(name, address, phone string) error {
	name = shared.CleanName(name)
	if name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if len(name) > 100 {
		return shared.NewValidationError("name", "name cannot exceed 100 characters")
	}
	b.Name = name
	b.Address = strings.TrimSpace(address)
	b.Phone = strings.TrimSpace(phone)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Activate marks the branch as active
func (b *Branch) Activate() {
	if b.IsActive {
		return
	}
	b.IsActive = true
	b.Touch()
	b.IncrementVersion()
}

// Deactivate marks the branch as inactive
func (b *Branch) Deactivate() {
	if !b.IsActive {
		return
	}
	b.IsActive = false
	b.Touch()
	b.IncrementVersion()
}
