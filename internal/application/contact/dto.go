package contact

import (
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	csvimport "github.com/erp/accounting/internal/infrastructure/import"
	"github.com/google/uuid"
)

// CreateContactRequest represents a request to create a contact
type CreateContactRequest struct {
	BranchID  *uuid.UUID `json:"branch_id"`
	Type      string     `json:"type" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Phone     string     `json:"phone" binding:"max=50"`
	Email     string     `json:"email" binding:"omitempty,email,max=200"`
	Address   string     `json:"address" binding:"max=500"`
	TaxNumber string     `json:"tax_number" binding:"max=50"`
	Notes     string     `json:"notes" binding:"max=2000"`
}

// UpdateContactRequest represents a request to update a contact
type UpdateContactRequest struct {
	Type      *string `json:"type" binding:"omitempty,oneof=CUSTOMER SUPPLIER BOTH"`
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	Address   *string `json:"address" binding:"omitempty,max=500"`
	TaxNumber *string `json:"tax_number" binding:"omitempty,max=50"`
	Notes     *string `json:"notes" binding:"omitempty,max=2000"`
	IsActive  *bool   `json:"is_active"`
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=CUSTOMER SUPPLIER BOTH"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name type created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        uuid.UUID  `json:"id"`
	BranchID  uuid.UUID  `json:"branch_id"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	TaxNumber string     `json:"tax_number"`
	Notes     string     `json:"notes"`
	IsActive  bool       `json:"is_active"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// ImportResult summarizes a CSV contact import
type ImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		BranchID:  c.BranchID,
		Type:      string(c.Type),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToContactResponses converts a slice of contacts
func ToContactResponses(contacts []contact.Contact) []ContactResponse {
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out
}
