package contact

import (
	"context"
	"errors"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentLedger is the part of the payable and receivable repositories a contact needs
type DocumentLedger interface {
	CountByContact(ctx context.Context, contactID uuid.UUID) (int64, error)
	OutstandingByContact(ctx context.Context, contactID uuid.UUID) (decimal.Decimal, error)
}

// Service handles contact operations
type Service struct {
	repo        contact.Repository
	payables    DocumentLedger
	receivables DocumentLedger
	logger      *zap.Logger
}

// NewService creates a new contact Service
func NewService(repo contact.Repository, payables, receivables DocumentLedger, logger *zap.Logger) *Service {
	return &Service{repo: repo, payables: payables, receivables: receivables, logger: logger}
}

// Create creates a contact in the actor's branch, or the requested one for admins
func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateContactRequest) (*ContactResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	contactType, ok := contact.ParseType(req.Type)
	if !ok {
		return nil, shared.NewValidationError("type", "type must be CUSTOMER, SUPPLIER or BOTH")
	}

	c, err := contact.NewContact(branchID, actor.UserID, contactType, req.Name, contact.Details{
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		TaxNumber: req.TaxNumber,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, branchID, c.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, contact.ErrDuplicateName
		}
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// GetByID retrieves a contact within scope
func (s *Service) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(c)
	return &response, nil
}

// List retrieves contacts with filtering and pagination
func (s *Service) List(ctx context.Context, scope shared.Scope, filter ContactListFilter) ([]ContactResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := contact.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Scope:    scope,
		IsActive: filter.IsActive,
	}
	if filter.Type != "" {
		t, ok := contact.ParseType(filter.Type)
		if !ok {
			return nil, 0, shared.NewValidationError("type", "type must be CUSTOMER, SUPPLIER or BOTH")
		}
		domainFilter.Type = t
	}

	contacts, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToContactResponses(contacts), total, nil
}

// Update changes a contact. Names stay unique per branch.
func (s *Service) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	c, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	contactType := c.Type
	if req.Type != nil {
		t, ok := contact.ParseType(*req.Type)
		if !ok {
			return nil, shared.NewValidationError("type", "type must be CUSTOMER, SUPPLIER or BOTH")
		}
		contactType = t
	}
	name := c.Name
	if req.Name != nil {
		name = *req.Name
	}
	details := contact.Details{Phone: c.Phone, Email: c.Email, Address: c.Address, TaxNumber: c.TaxNumber, Notes: c.Notes}
	setIfPresent(&details.Phone, req.Phone)
	setIfPresent(&details.Email, req.Email)
	setIfPresent(&details.Address, req.Address)
	setIfPresent(&details.TaxNumber, req.TaxNumber)
	setIfPresent(&details.Notes, req.Notes)

	if shared.NormalizeName(name) != c.NormalizedName() {
		if err := s.ensureUniqueName(ctx, c.BranchID, name, c.ID); err != nil {
			return nil, err
		}
	}
	if err := c.Update(contactType, name, details); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != c.IsActive {
		if *req.IsActive {
			c.Activate()
		} else {
			c.Deactivate()
		}
	}
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, contact.ErrDuplicateName
		}
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// Delete removes a contact that no payable or receivable references
func (s *Service) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	payables, err := s.payables.CountByContact(ctx, c.ID)
	if err != nil {
		return err
	}
	receivables, err := s.receivables.CountByContact(ctx, c.ID)
	if err != nil {
		return err
	}
	if payables+receivables > 0 {
		return contact.ErrContactInUse.
			WithDetail("payables", payables).
			WithDetail("receivables", receivables)
	}
	return s.repo.Delete(ctx, c.ID)
}

// Balance reports what the branch owes the contact and what the contact owes the branch
func (s *Service) Balance(ctx context.Context, scope shared.Scope, id uuid.UUID) (*contact.Balance, error) {
	c, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	payable, err := s.payables.OutstandingByContact(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	receivable, err := s.receivables.OutstandingByContact(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	// Net is derived from the rounded parts so the three figures always reconcile
	payable, receivable = shared.RoundMoney(payable), shared.RoundMoney(receivable)
	return &contact.Balance{
		ContactID:             c.ID,
		PayableOutstanding:    payable,
		ReceivableOutstanding: receivable,
		Net:                   receivable.Sub(payable),
	}, nil
}

// ensureUniqueName fails when another contact in the branch has the same normalized name
func (s *Service) ensureUniqueName(ctx context.Context, branchID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByNormalizedName(ctx, branchID, shared.NormalizeName(name))
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == self {
		return nil
	}
	return contact.ErrDuplicateName
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
