package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/contact"
	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayableService manages accounts payable and the payments made against them
type PayableService struct {
	repo      finance.AccountPayableRepository
	contacts  contact.Repository
	txScope   TransactionScope
	publisher shared.EventPublisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewPayableService creates a new PayableService
func NewPayableService(
	repo finance.AccountPayableRepository,
	contacts contact.Repository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *PayableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayableService{
		repo:      repo,
		contacts:  contacts,
		txScope:   txScope,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Create records a payable against a supplier of the branch
func (s *PayableService) Create(ctx context.Context, actor shared.Actor, req CreateDocumentRequest) (*PayableResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	in, err := documentInput(req, s.now())
	if err != nil {
		return nil, err
	}
	supplier, err := findContact(ctx, s.contacts, branchID, req.ContactID)
	if err != nil {
		return nil, err
	}
	if err := supplier.CheckSupplier(); err != nil {
		return nil, err
	}

	number, err := s.repo.NextNumber(ctx, in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("allocate payable number: %w", err)
	}
	ap, err := finance.NewAccountPayable(branchID, actor.UserID, number, in)
	if err != nil {
		return nil, err
	}
	ap.ContactName = supplier.Name
	if err := s.repo.Save(ctx, ap); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, ap.PullDomainEvents()...)
	s.logger.Info("payable created",
		zap.String("payable_id", ap.ID.String()),
		zap.String("number", ap.Number),
		zap.String("amount", ap.Amount.StringFixed(2)),
	)
	resp := ToPayableResponse(ap, s.now())
	return &resp, nil
}

// GetByID retrieves a payable with its payments
func (s *PayableService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*PayableResponse, error) {
	ap, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap, s.now())
	return &resp, nil
}

// List retrieves payables with filtering and pagination
func (s *PayableService) List(ctx context.Context, scope shared.Scope, filter DocumentListFilter) ([]PayableResponse, int64, error) {
	if filter.OrderBy == "received_amount" {
		filter.OrderBy = "paid_amount"
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
	return ToPayableResponses(items, s.now()), total, nil
}

// Update edits the description, amount or due date of an open payable
func (s *PayableService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateDocumentRequest) (*PayableResponse, error) {
	ap, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	in, err := updatedInput(req, ap.Description, ap.Amount, ap.DueDate)
	if err != nil {
		return nil, err
	}
	if err := ap.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ap); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap, s.now())
	return &resp, nil
}

// Cancel voids a payable without payments
func (s *PayableService) Cancel(ctx context.Context, scope shared.Scope, id uuid.UUID) (*PayableResponse, error) {
	ap, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := ap.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ap); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap, s.now())
	return &resp, nil
}

// Delete removes a payable without payments
func (s *PayableService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	ap, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := ap.CanDelete(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ap.ID)
}

// RecordPayment applies a payment. With RecordExpense the matching EXPENSE transaction
// is booked in the same database transaction and linked to the payment.
func (s *PayableService) RecordPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, req RecordPaymentRequest) (*SettlementResponse, error) {
	paidOn, err := parseDateOr("date", req.Date, s.now())
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID

	var (
		ap      *finance.AccountPayable
		payment *finance.PayablePayment
		txn     *finance.Transaction
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ap, err = repos.PayableRepo().FindByIDForUpdate(ctx, actor.Scope(), id)
		if err != nil {
			return err
		}
		payment, err = ap.RecordPayment(finance.PaymentInput{
			Amount:    req.Amount,
			Date:      paidOn,
			Method:    finance.PaymentMethod(req.Method),
			Reference: req.Reference,
			Notes:     req.Notes,
			CreatedBy: &createdBy,
		})
		if err != nil {
			return err
		}

		if req.RecordExpense {
			txn, err = finance.NewSystemTransaction(ap.BranchID, actor.UserID, finance.TransactionInput{
				Type:          finance.TransactionTypeExpense,
				Category:      finance.CategoryPayablePayment,
				Amount:        payment.Amount,
				Date:          payment.PaymentDate,
				Description:   "Payment for " + ap.Number,
				PaymentMethod: payment.Method,
				Reference:     payment.Reference,
				ContactID:     &ap.ContactID,
			}, finance.SourcePayablePayment, payment.ID)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Save(ctx, txn); err != nil {
				return err
			}
			linkPayableTransaction(ap, payment, txn.ID)
		}

		if err := repos.PayableRepo().Save(ctx, ap); err != nil {
			return err
		}
		return repos.PayableRepo().AddPayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	events := ap.PullDomainEvents()
	if txn != nil {
		events = append(events, txn.PullDomainEvents()...)
		s.metrics.RecordTransaction(ctx, txn.BranchID.String(), string(txn.Type), string(txn.Source), txn.Amount)
	}
	s.metrics.RecordSettlement(ctx, "payable", string(payment.Method))
	publish(ctx, s.publisher, s.logger, events...)
	s.logger.Info("payable payment recorded",
		zap.String("payable_id", ap.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("status", ap.Status.String()),
		zap.Bool("expense_recorded", txn != nil),
	)

	resp := &SettlementResponse{
		Payment:     toPayablePaymentResponse(payment),
		Status:      ap.Status.String(),
		Outstanding: ap.Outstanding(),
	}
	if txn != nil {
		t := ToTransactionResponse(txn)
		resp.Transaction = &t
	}
	return resp, nil
}

// DeletePayment reverses a payment and removes the transaction it booked
func (s *PayableService) DeletePayment(ctx context.Context, scope shared.Scope, id, paymentID uuid.UUID) (*PayableResponse, error) {
	var ap *finance.AccountPayable
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		ap, err = repos.PayableRepo().FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		removed, err := ap.RemovePayment(paymentID)
		if err != nil {
			return err
		}
		if err := repos.PayableRepo().Save(ctx, ap); err != nil {
			return err
		}
		if err := repos.PayableRepo().DeletePayment(ctx, removed.ID); err != nil {
			return err
		}
		return deleteLinkedTransaction(ctx, repos.TransactionRepo(), removed.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap, s.now())
	return &resp, nil
}

// Summary reports outstanding, overdue and soon-due totals
func (s *PayableService) Summary(ctx context.Context, scope shared.Scope, windowDays int) (*finance.DocumentSummary, error) {
	return s.repo.Summary(ctx, scope, s.now(), summaryWindow(windowDays))
}

// Aging buckets the outstanding amounts of open payables by days past due
func (s *PayableService) Aging(ctx context.Context, scope shared.Scope, asOf string) (*finance.AgingReport, error) {
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

// linkPayableTransaction sets the transaction on the returned payment and on its copy in the aggregate
func linkPayableTransaction(ap *finance.AccountPayable, p *finance.PayablePayment, txnID uuid.UUID) {
	p.TransactionID = &txnID
	for i := range ap.Payments {
		if ap.Payments[i].ID == p.ID {
			ap.Payments[i].TransactionID = &txnID
		}
	}
}

// deleteLinkedTransaction removes the system transaction booked for a settlement, if any
func deleteLinkedTransaction(ctx context.Context, repo finance.TransactionRepository, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if err := repo.Delete(ctx, *id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}
