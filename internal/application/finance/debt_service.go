package finance

import (
	"context"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DebtService manages legacy debts. Migrated debts stay readable but cannot change.
type DebtService struct {
	repo    finance.DebtRepository
	txScope TransactionScope
	logger  *zap.Logger
}

// NewDebtService creates a new DebtService
func NewDebtService(repo finance.DebtRepository, txScope TransactionScope, logger *zap.Logger) *DebtService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebtService{repo: repo, txScope: txScope, logger: logger}
}

// Create records a debt
func (s *DebtService) Create(ctx context.Context, actor shared.Actor, req CreateDebtRequest) (*DebtResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	d, err := finance.NewDebt(branchID, actor.UserID, req.CreditorName, req.Description, req.Amount, due)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDebtResponse(d)
	return &resp, nil
}

// GetByID retrieves a debt with its payments
func (s *DebtService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*DebtResponse, error) {
	d, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToDebtResponse(d)
	return &resp, nil
}

// List retrieves debts with filtering and pagination
func (s *DebtService) List(ctx context.Context, scope shared.Scope, filter DebtListFilter) ([]DebtResponse, int64, error) {
	pagingDefaults(&filter.Page, &filter.PageSize, &filter.OrderBy, &filter.OrderDir, "created_at", "desc")

	domainFilter := finance.DebtFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Scope:    scope,
		Status:   finance.DebtStatus(filter.Status),
		Migrated: filter.Migrated,
	}
	debts, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToDebtResponses(debts), total, nil
}

// Update edits the creditor, description, amount and due date
func (s *DebtService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateDebtRequest) (*DebtResponse, error) {
	due, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.CreditorName, req.Description, req.Amount, due); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDebtResponse(d)
	return &resp, nil
}

// Delete removes a debt without payments
func (s *DebtService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	d, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := d.CanDelete(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, d.ID)
}

// AddPayment records an installment. The debt row is locked while its paid amount changes.
func (s *DebtService) AddPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, req AddDebtPaymentRequest) (*DebtResponse, error) {
	paidOn, err := parseDateOr("payment_date", req.PaymentDate, time.Now())
	if err != nil {
		return nil, err
	}

	var d *finance.Debt
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = repos.DebtRepo().FindByIDForUpdate(ctx, actor.Scope(), id)
		if err != nil {
			return err
		}
		createdBy := actor.UserID
		p, err := d.AddPayment(req.Amount, paidOn, req.Notes, &createdBy)
		if err != nil {
			return err
		}
		if err := repos.DebtRepo().Save(ctx, d); err != nil {
			return err
		}
		return repos.DebtRepo().AddPayment(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("debt payment recorded",
		zap.String("debt_id", d.ID.String()),
		zap.String("status", string(d.Status)),
	)
	resp := ToDebtResponse(d)
	return &resp, nil
}

// DeletePayment removes an installment and recomputes the debt status
func (s *DebtService) DeletePayment(ctx context.Context, scope shared.Scope, id, paymentID uuid.UUID) (*DebtResponse, error) {
	var d *finance.Debt
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		d, err = repos.DebtRepo().FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		removed, err := d.RemovePayment(paymentID)
		if err != nil {
			return err
		}
		if err := repos.DebtRepo().Save(ctx, d); err != nil {
			return err
		}
		return repos.DebtRepo().DeletePayment(ctx, removed.ID)
	})
	if err != nil {
		return nil, err
	}
	resp := ToDebtResponse(d)
	return &resp, nil
}
