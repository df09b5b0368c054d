package payroll

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNothingToPay is returned when paying a record whose net pay is zero
var ErrNothingToPay = shared.NewDomainError("NOTHING_TO_PAY", "Net pay is zero; there is no expense to book")

// PayrollService manages payroll records from draft to paid
type PayrollService struct {
	records   payroll.RecordRepository
	employees payroll.EmployeeRepository
	txScope   TransactionScope
	publisher shared.EventPublisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	records payroll.RecordRepository,
	employees payroll.EmployeeRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *PayrollService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollService{
		records:   records,
		employees: employees,
		txScope:   txScope,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate creates a DRAFT record for every active employee of the branch
// that has none for the period yet.
func (s *PayrollService) Generate(ctx context.Context, actor shared.Actor, req GeneratePayrollRequest) (*payroll.GenerateResult, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	period := strings.TrimSpace(req.Period)
	if err := payroll.ValidatePeriod(period); err != nil {
		return nil, err
	}

	result := &payroll.GenerateResult{Period: period}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.PayrollRepo().EmployeeIDsForPeriod(ctx, branchID, period)
		if err != nil {
			return err
		}
		active, err := repos.EmployeeRepo().FindActiveByBranch(ctx, branchID)
		if err != nil {
			return err
		}
		for i := range active {
			e := &active[i]
			if existing[e.ID] {
				result.Skipped++
				continue
			}
			r, err := payroll.NewDraftFromEmployee(e, actor.UserID, period)
			if err != nil {
				return err
			}
			if err := repos.PayrollRepo().Save(ctx, r); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payroll generated",
		zap.String("branch_id", branchID.String()),
		zap.String("period", period),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Create adds a single DRAFT record
func (s *PayrollService) Create(ctx context.Context, actor shared.Actor, req CreateRecordRequest) (*RecordResponse, error) {
	e, err := s.employees.FindByID(ctx, actor.Scope(), req.EmployeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("employee_id", "employee not found")
		}
		return nil, err
	}
	period := strings.TrimSpace(req.Period)
	if err := payroll.ValidatePeriod(period); err != nil {
		return nil, err
	}
	exists, err := s.records.ExistsForPeriod(ctx, e.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payroll.ErrDuplicatePeriod.WithDetail("period", period)
	}

	base := e.BaseSalary
	if req.BaseSalary != nil {
		base = *req.BaseSalary
	}
	r, err := payroll.NewRecord(e, actor.UserID, period, payroll.Amounts{
		BaseSalary: base,
		Allowances: req.Allowances,
		Bonuses:    req.Bonuses,
		Deductions: req.Deductions,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, r); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, payroll.ErrDuplicatePeriod.WithDetail("period", period)
		}
		return nil, err
	}
	resp := ToRecordResponse(r)
	return &resp, nil
}

// GetByID retrieves a payroll record within scope
func (s *PayrollService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*RecordResponse, error) {
	r, err := s.records.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToRecordResponse(r)
	return &resp, nil
}

// List retrieves payroll records with filtering and pagination
func (s *PayrollService) List(ctx context.Context, scope shared.Scope, filter RecordListFilter) ([]RecordResponse, int64, error) {
	pagingDefaults(&filter.Page, &filter.PageSize, &filter.OrderBy, &filter.OrderDir, "period", "desc")
	if filter.Period != "" {
		if err := payroll.ValidatePeriod(filter.Period); err != nil {
			return nil, 0, err
		}
	}
	domainFilter := payroll.RecordFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Scope:      scope,
		Period:     filter.Period,
		Status:     payroll.RecordStatus(filter.Status),
		EmployeeID: filter.EmployeeID,
	}
	records, err := s.records.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.records.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRecordResponses(records), total, nil
}

// Update edits the amounts of a DRAFT record
func (s *PayrollService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateRecordRequest) (*RecordResponse, error) {
	r, err := s.records.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	amounts := payroll.Amounts{
		BaseSalary: pick(req.BaseSalary, r.BaseSalary),
		Allowances: pick(req.Allowances, r.Allowances),
		Bonuses:    pick(req.Bonuses, r.Bonuses),
		Deductions: pick(req.Deductions, r.Deductions),
		Notes:      r.Notes,
	}
	if req.Notes != nil {
		amounts.Notes = *req.Notes
	}
	if err := r.Update(amounts); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRecordResponse(r)
	return &resp, nil
}

// Approve moves a DRAFT record to APPROVED
func (s *PayrollService) Approve(ctx context.Context, actor shared.Actor, id uuid.UUID) (*RecordResponse, error) {
	r, err := s.records.FindByID(ctx, actor.Scope(), id)
	if err != nil {
		return nil, err
	}
	if err := r.Approve(actor.UserID, s.now()); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("payroll approved",
		zap.String("record_id", r.ID.String()),
		zap.String("period", r.Period),
	)
	resp := ToRecordResponse(r)
	return &resp, nil
}

// Delete removes a DRAFT record
func (s *PayrollService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	r, err := s.records.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := r.CanDelete(); err != nil {
		return err
	}
	return s.records.Delete(ctx, r.ID)
}

// Pay marks an APPROVED record as PAID and books the matching EXPENSE
// transaction in the same database transaction.
func (s *PayrollService) Pay(ctx context.Context, actor shared.Actor, id uuid.UUID, req PayRecordRequest) (*RecordResponse, error) {
	now := s.now()
	paidOn, err := parseDateOr("date", req.Date, now)
	if err != nil {
		return nil, err
	}

	var (
		r   *payroll.Record
		txn *finance.Transaction
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		r, err = repos.PayrollRepo().FindByIDForUpdate(ctx, actor.Scope(), id)
		if err != nil {
			return err
		}
		if r.Status != payroll.RecordApproved {
			return payroll.ErrInvalidTransition.WithDetail("status", string(r.Status))
		}
		if !r.NetPay.IsPositive() {
			return ErrNothingToPay
		}
		txn, err = finance.NewSystemTransaction(r.BranchID, actor.UserID, finance.TransactionInput{
			Type:          finance.TransactionTypeExpense,
			Category:      finance.CategoryPayroll,
			Amount:        r.NetPay,
			Date:          paidOn,
			Description:   r.ExpenseDescription(),
			PaymentMethod: finance.PaymentMethod(req.PaymentMethod),
			Reference:     req.Reference,
		}, finance.SourcePayroll, r.ID)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Save(ctx, txn); err != nil {
			return err
		}
		if err := r.MarkPaid(txn.ID, now); err != nil {
			return err
		}
		return repos.PayrollRepo().Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	events := append(r.PullDomainEvents(), txn.PullDomainEvents()...)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish payroll events", zap.Error(err))
		}
	}
	s.metrics.RecordTransaction(ctx, txn.BranchID.String(), string(txn.Type), string(txn.Source), txn.Amount)
	s.logger.Info("payroll paid",
		zap.String("record_id", r.ID.String()),
		zap.String("transaction_id", txn.ID.String()),
		zap.String("net_pay", r.NetPay.StringFixed(2)),
	)
	resp := ToRecordResponse(r)
	return &resp, nil
}

// Summary aggregates one period: headcount, gross, deductions, net, paid and unpaid
func (s *PayrollService) Summary(ctx context.Context, scope shared.Scope, period string) (*payroll.PeriodSummary, error) {
	if period == "" {
		period = payroll.PeriodOf(s.now())
	}
	if err := payroll.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return s.records.Summary(ctx, scope, period)
}

func pick(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return def
}
