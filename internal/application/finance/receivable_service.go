package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivableService manages accounts receivable and the receipts collected against them
type ReceivableService struct {
	repo      finance.AccountReceivableRepository
	contacts  contact.Repository
	txScope   TransactionScope
	publisher shared.EventPublisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(
	repo finance.AccountReceivableRepository,
	contacts contact.Repository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *ReceivableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivableService{
		repo:      repo,
		contacts:  contacts,
		txScope:   txScope,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Create records a receivable against a customer of the branch
func (s *ReceivableService) Create(ctx context.Context, actor shared.Actor, req CreateDocumentRequest) (*ReceivableResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	in, err := documentInput(req, s.now())
	if err != nil {
		return nil, err
	}
	customer, err := findContact(ctx, s.contacts, branchID, req.ContactID)
	if err != nil {
		return nil, err
	}
	if err := customer.CheckCustomer(); err != nil {
		return nil, err
	}

	number, err := s.repo.NextNumber(ctx, in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("allocate receivable number: %w", err)
	}
	ar, err := finance.NewAccountReceivable(branchID, actor.UserID, number, in)
	if err != nil {
		return nil, err
	}
	ar.ContactName = customer.Name
	if err := s.repo.Save(ctx, ar); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, ar.PullDomainEvents()...)
	s.logger.Info("receivable created",
		zap.String("receivable_id", ar.ID.String()),
		zap.String("number", ar.Number),
		zap.String("amount", ar.Amount.StringFixed(2)),
	)
	resp := ToReceivableResponse(ar, s.now())
	return &resp, nil
}

// GetByID retrieves a receivable with its receipts
func (s *ReceivableService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ReceivableResponse, error) {
	ar, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar, s.now())
	return &resp, nil
}

// List retrieves receivables with filtering and pagination
func (s *ReceivableService) List(ctx context.Context, scope shared.Scope, filter DocumentListFilter) ([]ReceivableResponse, int64, error) {
	if filter.OrderBy == "paid_amount" {
		filter.OrderBy = "received_amount"
	}
	domainFilter, err := documentFilter(scope, filter, s.now())
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
	return ToReceivableResponses(items, s.now()), total, nil
}

// Update edits the description, amount or due date of an open receivable
func (s *ReceivableService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateDocumentRequest) (*ReceivableResponse, error) {
	ar, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	in, err := updatedInput(req, ar.Description, ar.Amount, ar.DueDate)
	if err != nil {
		return nil, err
	}
	if err := ar.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ar); err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar, s.now())
	return &resp, nil
}

// Cancel voids a receivable without receipts
func (s *ReceivableService) Cancel(ctx context.Context, scope shared.Scope, id uuid.UUID) (*ReceivableResponse, error) {
	ar, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := ar.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ar); err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar, s.now())
	return &resp, nil
}

// Delete removes a receivable without receipts
func (s *ReceivableService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	ar, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := ar.CanDelete(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ar.ID)
}

// RecordReceipt applies money received. With RecordIncome the matching INCOME
// transaction is booked in the same database transaction.
func (s *ReceivableService) RecordReceipt(ctx context.Context, actor shared.Actor, id uuid.UUID, req RecordPaymentRequest) (*SettlementResponse, error) {
	receivedOn, err := parseDateOr("date", req.Date, s.now())
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID

	var (
		ar      *finance.AccountReceivable
		receipt *finance.ReceivableReceipt
		txn     *finance.Transaction
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ar, err = repos.ReceivableRepo().FindByIDForUpdate(ctx, actor.Scope(), id)
		if err != nil {
			return err
		}
		receipt, err = ar.RecordReceipt(finance.PaymentInput{
			Amount:    req.Amount,
			Date:      receivedOn,
			Method:    finance.PaymentMethod(req.Method),
			Reference: req.Reference,
			Notes:     req.Notes,
			CreatedBy: &createdBy,
		})
		if err != nil {
			return err
		}

		if req.RecordIncome {
			txn, err = finance.NewSystemTransaction(ar.BranchID, actor.UserID, finance.TransactionInput{
				Type:          finance.TransactionTypeIncome,
				Category:      finance.CategoryReceivableReceipt,
				Amount:        receipt.Amount,
				Date:          receipt.ReceiptDate,
				Description:   "Receipt for " + ar.Number,
				PaymentMethod: receipt.Method,
				Reference:     receipt.Reference,
				ContactID:     &ar.ContactID,
			}, finance.SourceReceivableReceipt, receipt.ID)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Save(ctx, txn); err != nil {
				return err
			}
			receipt.TransactionID = &txn.ID
			for i := range ar.Receipts {
				if ar.Receipts[i].ID == receipt.ID {
					ar.Receipts[i].TransactionID = &txn.ID
				}
			}
		}

		if err := repos.ReceivableRepo().Save(ctx, ar); err != nil {
			return err
		}
		return repos.ReceivableRepo().AddReceipt(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	events := ar.PullDomainEvents()
	if txn != nil {
		events = append(events, txn.PullDomainEvents()...)
		s.metrics.RecordTransaction(ctx, txn.BranchID.String(), string(txn.Type), string(txn.Source), txn.Amount)
	}
	s.metrics.RecordSettlement(ctx, "receivable", string(receipt.Method))
	publish(ctx, s.publisher, s.logger, events...)
	s.logger.Info("receivable receipt recorded",
		zap.String("receivable_id", ar.ID.String()),
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("amount", receipt.Amount.StringFixed(2)),
		zap.String("status", ar.Status.String()),
		zap.Bool("income_recorded", txn != nil),
	)

	resp := &SettlementResponse{
		Payment:     toReceiptResponse(receipt),
		Status:      ar.Status.String(),
		Outstanding: ar.Outstanding(),
	}
	if txn != nil {
		t := ToTransactionResponse(txn)
		resp.Transaction = &t
	}
	return resp, nil
}

// DeleteReceipt reverses a receipt and removes the transaction it booked
func (s *ReceivableService) DeleteReceipt(ctx context.Context, scope shared.Scope, id, receiptID uuid.UUID) (*ReceivableResponse, error) {
	var ar *finance.AccountReceivable
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ar, err = repos.ReceivableRepo().FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		removed, err := ar.RemoveReceipt(receiptID)
		if err != nil {
			return err
		}
		if err := repos.ReceivableRepo().Save(ctx, ar); err != nil {
			return err
		}
		if err := repos.ReceivableRepo().DeleteReceipt(ctx, removed.ID); err != nil {
			return err
		}
		return deleteLinkedTransaction(ctx, repos.TransactionRepo(), removed.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar, s.now())
	return &resp, nil
}

// Summary reports outstanding, overdue and soon-due totals
func (s *ReceivableService) Summary(ctx context.Context, scope shared.Scope, windowDays int) (*finance.DocumentSummary, error) {
	return s.repo.Summary(ctx, scope, s.now(), summaryWindow(windowDays))
}

// Aging buckets the outstanding amounts of open receivables by days past due
func (s *ReceivableService) Aging(ctx context.Context, scope shared.Scope, asOf string) (*finance.AgingReport, error) {
	at, err := parseDateOr("as_of", asOf, s.now())
	if err != nil {
		return nil, err
	}
	open, err := s.repo.FindOpen(ctx, scope, nil)
	if err != nil {
		return nil, err
	}
	items := make([]finance.OpenItem, len(open))
	for i := range open {
		items[i] = finance.OpenItem{DueDate: open[i].DueDate, Outstanding: open[i].Outstanding()}
	}
	return finance.BuildAgingReport(at, items), nil
}
