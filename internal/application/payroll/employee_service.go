package payroll

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService manages the employees of a branch
type EmployeeService struct {
	repo    payroll.EmployeeRepository
	records payroll.RecordRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repo payroll.EmployeeRepository, records payroll.RecordRepository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, records: records, logger: logger, now: time.Now}
}

// Create adds an ACTIVE employee
func (s *EmployeeService) Create(ctx context.Context, actor shared.Actor, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	branchID, err := actor.WriteBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	hired, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return nil, err
	}
	e, err := payroll.NewEmployee(branchID, actor.UserID, payroll.EmployeeInput{
		Code:        req.Code,
		FullName:    req.FullName,
		Position:    req.Position,
		Department:  req.Department,
		Phone:       req.Phone,
		Email:       req.Email,
		HireDate:    hired,
		BaseSalary:  req.BaseSalary,
		BankAccount: req.BankAccount,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCode(ctx, branchID, e.Code, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, payroll.ErrDuplicateCode
		}
		return nil, err
	}
	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("code", e.Code),
	)
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// GetByID retrieves an employee within scope
func (s *EmployeeService) GetByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, scope shared.Scope, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	pagingDefaults(&filter.Page, &filter.PageSize, &filter.OrderBy, &filter.OrderDir, "full_name", "asc")
	domainFilter := payroll.EmployeeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Scope:      scope,
		Status:     payroll.EmployeeStatus(filter.Status),
		Department: strings.TrimSpace(filter.Department),
	}
	employees, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEmployeeResponses(employees), total, nil
}

// Update edits employee details and toggles ACTIVE/INACTIVE
func (s *EmployeeService) Update(ctx context.Context, scope shared.Scope, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	in := payroll.EmployeeInput{
		Code:        e.Code,
		FullName:    e.FullName,
		Position:    e.Position,
		Department:  e.Department,
		Phone:       e.Phone,
		Email:       e.Email,
		HireDate:    e.HireDate,
		BaseSalary:  e.BaseSalary,
		BankAccount: e.BankAccount,
	}
	setIfPresent(&in.Code, req.Code)
	setIfPresent(&in.FullName, req.FullName)
	setIfPresent(&in.Position, req.Position)
	setIfPresent(&in.Department, req.Department)
	setIfPresent(&in.Phone, req.Phone)
	setIfPresent(&in.Email, req.Email)
	setIfPresent(&in.BankAccount, req.BankAccount)
	if req.BaseSalary != nil {
		in.BaseSalary = *req.BaseSalary
	}
	if req.HireDate != nil {
		if in.HireDate, err = parseDate("hire_date", *req.HireDate); err != nil {
			return nil, err
		}
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code != e.Code {
		if err := s.ensureUniqueCode(ctx, e.BranchID, code, &e.ID); err != nil {
			return nil, err
		}
	}
	if err := e.Update(in); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := e.SetStatus(payroll.EmployeeStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, e); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, payroll.ErrDuplicateCode
		}
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Terminate ends employment. Terminated employees get no new payroll.
func (s *EmployeeService) Terminate(ctx context.Context, scope shared.Scope, id uuid.UUID, req TerminateEmployeeRequest) (*EmployeeResponse, error) {
	at, err := parseDateOr("date", req.Date, s.now())
	if err != nil {
		return nil, err
	}
	e, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := e.Terminate(at); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("employee terminated", zap.String("employee_id", e.ID.String()))
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// Delete removes an employee that has no payroll history
func (s *EmployeeService) Delete(ctx context.Context, scope shared.Scope, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	count, err := s.records.CountByEmployee(ctx, e.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return payroll.ErrEmployeeHasPayroll.WithDetail("records", count)
	}
	return s.repo.Delete(ctx, e.ID)
}

func (s *EmployeeService) ensureUniqueCode(ctx context.Context, branchID uuid.UUID, code string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsByCode(ctx, branchID, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return payroll.ErrDuplicateCode.WithDetail("code", code)
	}
	return nil
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := shared.ParseDate(value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, field+" must use the YYYY-MM-DD format")
	}
	return t, nil
}

func parseDateOr(field, value string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return parseDate(field, value)
}

func pagingDefaults(page, pageSize *int, orderBy, orderDir *string, defOrder, defDir string) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = 20
	}
	if *orderBy == "" {
		*orderBy = defOrder
	}
	if *orderDir == "" {
		*orderDir = defDir
	}
}
