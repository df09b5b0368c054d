package finance

import (
	"context"
	"errors"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/storage"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AttachmentStorage is the object store holding receipt scans
type AttachmentStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
	Enabled() bool
}

// TransactionService manages income and expense entries
type TransactionService struct {
	repo      finance.TransactionRepository
	contacts  contact.Repository
	storage   AttachmentStorage
	publisher shared.EventPublisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// NewTransactionService creates a new TransactionService. storage may be nil when attachments are off.
func NewTransactionService(
	repo finance.TransactionRepository,
	contacts contact.Repository,
	store AttachmentStorage,
	publisher shared.EventPublisher,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *TransactionService {
	if store == nil {
		store = storage.NewStubObjectStorage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		repo:      repo,
		contacts:  contacts,
		storage:   store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create records a manual transaction
func (s *TransactionService) Create(ctx context.Context, actor shared.Actor, req CreateTransactionRequest) (*TransactionResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(ctx, branchID, req.Type, req.Category, req.Amount, req.Date,
		req.Description, req.PaymentMethod, req.Reference, req.ContactID)
	if err != nil {
		return nil, err
	}
	t, err := finance.NewTransaction(branchID, actor.UserID, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.metrics.RecordTransaction(ctx, t.BranchID.String(), string(t.Type), string(t.Source), t.Amount)
	publish(ctx, s.publisher, s.logger, t.PullDomainEvents()...)
	s.logger.Info("transaction recorded",
		zap.String("transaction_id", t.ID.String()),
		zap.String("branch_id", t.BranchID.String()),
		zap.String("type", string(t.Type)),
		zap.String("amount", t.Amount.StringFixed(2)),
	)

	resp := ToTransactionResponse(t)
	return &resp, nil
}

// GetByID retrieves a transaction within scope
func (s *TransactionService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, scope shared.Scope, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	pagingDefaults(&filter.Page, &filter.PageSize, &filter.OrderBy, &filter.OrderDir, "date", "desc")

	domainFilter, err := transactionFilter(scope, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(items), total, nil
}

// Update replaces the fields of a manual transaction
func (s *TransactionService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if t.IsSystemGenerated() {
		return nil, finance.ErrTransactionLocked
	}
	in, err := s.input(ctx, t.BranchID, req.Type, req.Category, req.Amount, req.Date,
		req.Description, req.PaymentMethod, req.Reference, req.ContactID)
	if err != nil {
		return nil, err
	}
	if err := t.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// Delete removes a manual transaction and its attachment
func (s *TransactionService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := t.CanDelete(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.removeObject(ctx, t.AttachmentKey)
	return nil
}

// Categories lists the distinct categories in use, optionally for one type
func (s *TransactionService) Categories(ctx context.Context, scope shared.Scope, txType string) ([]string, error) {
	t := finance.TransactionType(txType)
	if txType != "" && !t.IsValid() {
		return nil, shared.NewValidationError("type", "type must be INCOME or EXPENSE")
	}
	categories, err := s.repo.Categories(ctx, scope, t)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// Summary totals income and expense between from and to, grouped by category
func (s *TransactionService) Summary(ctx context.Context, scope shared.Scope, from, to string) (*TransactionSummaryResponse, error) {
	filter := finance.TransactionFilter{Scope: scope}
	resp := &TransactionSummaryResponse{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	var err error
	if filter.From, err = parseOptionalDate("from", &from); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate("to", &to); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewValidationError("to", "to cannot be before from")
	}
	resp.From, resp.To = formatDate(filter.From), formatDate(filter.To)

	totals, err := s.repo.SumByCategory(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, ct := range totals {
		switch ct.Type {
		case finance.TransactionTypeIncome:
			resp.TotalIncome = resp.TotalIncome.Add(ct.Total)
		case finance.TransactionTypeExpense:
			resp.TotalExpense = resp.TotalExpense.Add(ct.Total)
		}
	}
	resp.Categories = totals
	if resp.Categories == nil {
		resp.Categories = []finance.CategoryTotal{}
	}
	resp.Net = resp.TotalIncome.Sub(resp.TotalExpense)
	return resp, nil
}

// CreateAttachmentUploadURL returns a presigned PUT URL for the receipt of a transaction
// and records the new object key. A previous attachment is removed.
func (s *TransactionService) CreateAttachmentUploadURL(ctx context.Context, scope shared.Scope, id uuid.UUID, req AttachmentUploadRequest) (*AttachmentURLResponse, error) {
	if !s.storage.Enabled() {
		return nil, storage.ErrStorageDisabled
	}
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	key, err := storage.AttachmentKey(t.BranchID, t.ID, req.ContentType)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, 0)
	if err != nil {
		return nil, err
	}

	previous := t.AttachmentKey
	t.AttachFile(key)
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.removeObject(ctx, previous)

	return &AttachmentURLResponse{URL: url, Method: "PUT", Key: key, ExpiresAt: expiresAt}, nil
}

// GetAttachmentURL returns a presigned GET URL for the receipt of a transaction
func (s *TransactionService) GetAttachmentURL(ctx context.Context, scope shared.Scope, id uuid.UUID) (*AttachmentURLResponse, error) {
	if !s.storage.Enabled() {
		return nil, storage.ErrStorageDisabled
	}
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if t.AttachmentKey == "" {
		return nil, shared.NewNotFoundError("attachment", t.ID)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, t.AttachmentKey, 0)
	if err != nil {
		return nil, err
	}
	return &AttachmentURLResponse{URL: url, Method: "GET", Key: t.AttachmentKey, ExpiresAt: expiresAt}, nil
}

func (s *TransactionService) removeObject(ctx context.Context, key string) {
	if key == "" || !s.storage.Enabled() {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete attachment", zap.String("key", key), zap.Error(err))
	}
}

// input validates the request fields that need lookups and builds the domain input
func (s *TransactionService) input(
	ctx context.Context,
	branchID uuid.UUID,
	txType, category string,
	amount decimal.Decimal,
	date, description, method, reference string,
	contactID *uuid.UUID,
) (finance.TransactionInput, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return finance.TransactionInput{}, err
	}
	if contactID != nil {
		if _, err := s.contacts.FindByID(ctx, shared.BranchScope(branchID), *contactID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return finance.TransactionInput{}, shared.NewValidationError("contact_id", "contact does not exist in this branch")
			}
			return finance.TransactionInput{}, err
		}
	}
	return finance.TransactionInput{
		Type:          finance.TransactionType(txType),
		Category:      category,
		Amount:        amount,
		Date:          d,
		Description:   description,
		PaymentMethod: finance.PaymentMethod(method),
		Reference:     reference,
		ContactID:     contactID,
	}, nil
}

func transactionFilter(scope shared.Scope, f TransactionListFilter) (finance.TransactionFilter, error) {
	out := finance.TransactionFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		Scope:     scope,
		Type:      finance.TransactionType(f.Type),
		Category:  f.Category,
		ContactID: f.ContactID,
		Source:    finance.TransactionSource(f.Source),
	}
	var err error
	if out.From, err = parseOptionalDate("from", &f.From); err != nil {
		return out, err
	}
	if out.To, err = parseOptionalDate("to", &f.To); err != nil {
		return out, err
	}
	if out.MinAmount, err = parseAmount("min_amount", f.MinAmount); err != nil {
		return out, err
	}
	if out.MaxAmount, err = parseAmount("max_amount", f.MaxAmount); err != nil {
		return out, err
	}
	return out, nil
}

// publish sends events after commit. Delivery failures never fail the request.
func publish(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
