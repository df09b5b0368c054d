package contact

import (
	"regexp"
	"strings"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Contact
const AggregateTypeContact = "Contact"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Type says which side of a trade the contact is on
type Type string

const (
	TypeCustomer Type = "CUSTOMER"
	TypeSupplier Type = "SUPPLIER"
	TypeBoth     Type = "BOTH"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	return t == TypeCustomer || t == TypeSupplier || t == TypeBoth
}

// ParseType normalizes a contact type
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Contact errors
var (
	ErrContactInUse    = shared.NewDomainError("CONTACT_IN_USE", "Contact has payables or receivables")
	ErrDuplicateName   = shared.NewDomainError("ALREADY_EXISTS", "A contact with this name already exists in the branch")
	ErrNotASupplier    = shared.NewDomainError("CONTACT_NOT_SUPPLIER", "Contact is not a supplier")
	ErrNotACustomer    = shared.NewDomainError("CONTACT_NOT_CUSTOMER", "Contact is not a customer")
	ErrContactInactive = shared.NewDomainError("CONTACT_INACTIVE", "Contact is inactive")
)

// Contact is a customer, a supplier, or both
type Contact struct {
	shared.BranchAggregateRoot
	Type      Type
	Name      string
	Phone     string
	Email     string
	Address   string
	TaxNumber string
	Notes     string
	IsActive  bool
}

// Details holds the optional descriptive fields of a contact
type Details struct {
	Phone     string
	Email     string
	Address   string
	TaxNumber string
	Notes     string
}

func (d *Details) normalize() error {
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Address = strings.TrimSpace(d.Address)
	d.TaxNumber = strings.TrimSpace(d.TaxNumber)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		return shared.NewValidationError("email", "Invalid email format")
	}
	if len(d.Phone) > 50 {
		return shared.NewValidationError("phone", "Phone cannot exceed 50 characters")
	}
	return nil
}

// NewContact creates an active contact
func NewContact(branchID, createdBy uuid.UUID, contactType Type, name string, details Details) (*Contact, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("branch_id", "branch is required")
	}
	if !contactType.IsValid() {
		return nil, shared.NewValidationError("type", "type must be CUSTOMER, SUPPLIER or BOTH")
	}
	name = shared.CleanName(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "name cannot exceed 200 characters")
	}
	if err := details.normalize(); err != nil {
		return nil, err
	}
	return &Contact{
		BranchAggregateRoot: shared.NewBranchAggregateRootWithCreator(branchID, createdBy),
		Type:                contactType,
		Name:                name,
		Phone:               details.Phone,
		Email:               details.Email,
		Address:             details.Address,
		TaxNumber:           details.TaxNumber,
		Notes:               details.Notes,
		IsActive:            true,
	}, nil
}

// NormalizedName is the comparison key used for uniqueness
func (c *Contact) NormalizedName() string {
	return shared.NormalizeName(c.Name)
}

// Update replaces the editable fields
func (c *Contact) Update(contactType Type, name string, details Details) error {
	if !contactType.IsValid() {
		return shared.NewValidationError("type", "type must be CUSTOMER, SUPPLIER or BOTH")
	}
	name = shared.CleanName(name)
	if name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if err := details.normalize(); err != nil {
		return err
	}
	c.Type = contactType
	c.Name = name
	c.Phone = details.Phone
	c.Email = details.Email
	c.Address = details.Address
	c.TaxNumber = details.TaxNumber
	c.Notes = details.Notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsSupplier reports whether payables may be raised against the contact
func (c *Contact) IsSupplier() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}

// IsCustomer reports whether receivables may be raised against the contact
func (c *Contact) IsCustomer() bool {
	return c.Type == TypeCustomer || c.Type == TypeBoth
}

// EnsureSupplier promotes a customer-only contact to BOTH. It returns true when the type changed.
func (c *Contact) EnsureSupplier() bool {
	if c.IsSupplier() {
		return false
	}
	c.Type = TypeBoth
	c.Touch()
	c.IncrementVersion()
	return true
}

// CheckSupplier verifies the contact can receive a payable
func (c *Contact) CheckSupplier() error {
	if !c.IsActive {
		return ErrContactInactive
	}
	if !c.IsSupplier() {
		return ErrNotASupplier
	}
	return nil
}

// CheckCustomer verifies the contact can receive a receivable
func (c *Contact) CheckCustomer() error {
	if !c.IsActive {
		return ErrContactInactive
	}
	if !c.IsCustomer() {
		return ErrNotACustomer
	}
	return nil
}

// Activate marks the contact usable
func (c *Contact) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate hides the contact from new documents
func (c *Contact) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}
