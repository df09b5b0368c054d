package persistence

import (
	"context"
	"errors"

	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements payroll.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee visible in the scope
func (r *GormEmployeeRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Employee, error) {
	var model models.EmployeeModel
	if err := scoped(r.db.WithContext(ctx), scope, "branch_id").First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists employees
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter payroll.EmployeeFilter) ([]payroll.Employee, error) {
	var rows []models.EmployeeModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, EmployeeSortFields, "code")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	employees := make([]payroll.Employee, len(rows))
	for i := range rows {
		employees[i] = *rows[i].ToDomain()
	}
	return employees, nil
}

// Count counts employees matching the filter
func (r *GormEmployeeRepository) Count(ctx context.Context, filter payroll.EmployeeFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormEmployeeRepository) filtered(ctx context.Context, filter payroll.EmployeeFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.EmployeeModel{}), filter.Scope, "branch_id")
	query = searchAny(query, filter.Search, "code", "full_name", "position", "email")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	return query
}

// FindActiveByBranch returns the ACTIVE employees of a branch ordered by code
func (r *GormEmployeeRepository) FindActiveByBranch(ctx context.Context, branchID uuid.UUID) ([]payroll.Employee, error) {
	var rows []models.EmployeeModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ?", branchID, payroll.EmployeeActive).
		Order("code ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	employees := make([]payroll.Employee, len(rows))
	for i := range rows {
		employees[i] = *rows[i].ToDomain()
	}
	return employees, nil
}

// ExistsByCode checks whether a branch already uses an employee code
func (r *GormEmployeeRepository) ExistsByCode(ctx context.Context, branchID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Where("branch_id = ? AND code = ?", branchID, code)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *payroll.Employee) error {
	return saveAggregate(ctx, r.db, models.EmployeeModelFromDomain(e), e.ID, &e.BaseAggregateRoot)
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.EmployeeModel{}, id)
}

var _ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)

// GormPayrollRecordRepository implements payroll.RecordRepository using GORM
type GormPayrollRecordRepository struct {
	db *gorm.DB
}

// NewGormPayrollRecordRepository creates a new GormPayrollRecordRepository
func NewGormPayrollRecordRepository(db *gorm.DB) *GormPayrollRecordRepository {
	return &GormPayrollRecordRepository{db: db}
}

// FindByID finds a payroll record with its employee name
func (r *GormPayrollRecordRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Record, error) {
	return r.find(scoped(r.db.WithContext(ctx), scope, "branch_id"), id)
}

// FindByIDForUpdate finds a payroll record and locks its row
func (r *GormPayrollRecordRepository) FindByIDForUpdate(ctx context.Context, scope shared.Scope, id uuid.UUID) (*payroll.Record, error) {
	return r.find(forUpdate(scoped(r.db.WithContext(ctx), scope, "branch_id")), id)
}

func (r *GormPayrollRecordRepository) find(query *gorm.DB, id uuid.UUID) (*payroll.Record, error) {
	var model models.PayrollRecordModel
	if err := query.Preload("Employee").First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payroll records
func (r *GormPayrollRecordRepository) FindAll(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, error) {
	var rows []models.PayrollRecordModel
	query := paginate(r.filtered(ctx, filter).Preload("Employee"), filter.Filter, PayrollSortFields, "period")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]payroll.Record, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Count counts payroll records matching the filter
func (r *GormPayrollRecordRepository) Count(ctx context.Context, filter payroll.RecordFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormPayrollRecordRepository) filtered(ctx context.Context, filter payroll.RecordFilter) *gorm.DB {
	query := scoped(r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}), filter.Scope, "branch_id")
	if filter.Period != "" {
		query = query.Where("period = ?", filter.Period)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	return query
}

// ExistsForPeriod checks whether an employee already has a record for the period
func (r *GormPayrollRecordRepository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}).
		Where("employee_id = ? AND period = ?", employeeID, period).
		Count(&count).Error
	return count > 0, err
}

// EmployeeIDsForPeriod returns the employees of a branch that already have a record for the period
func (r *GormPayrollRecordRepository) EmployeeIDsForPeriod(ctx context.Context, branchID uuid.UUID, period string) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}).
		Where("branch_id = ? AND period = ?", branchID, period).
		Pluck("employee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CountByEmployee counts the payroll records of an employee
func (r *GormPayrollRecordRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a payroll record
func (r *GormPayrollRecordRepository) Save(ctx context.Context, rec *payroll.Record) error {
	err := saveAggregate(ctx, r.db, models.PayrollRecordModelFromDomain(rec), rec.ID, &rec.BaseAggregateRoot)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return payroll.ErrDuplicatePeriod
	}
	return err
}

// Delete removes a payroll record
func (r *GormPayrollRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.PayrollRecordModel{}, id)
}

type payrollSummaryRow struct {
	Headcount   int64
	Gross       decimal.Decimal
	Deductions  decimal.Decimal
	Net         decimal.Decimal
	PaidCount   int64
	PaidNet     decimal.Decimal
	UnpaidCount int64
	UnpaidNet   decimal.Decimal
}

// Summary aggregates one payroll period
func (r *GormPayrollRecordRepository) Summary(ctx context.Context, scope shared.Scope, period string) (*payroll.PeriodSummary, error) {
	var row payrollSummaryRow
	err := scoped(r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}), scope, "branch_id").
		Where("period = ?", period).
		Select(
			"COUNT(*) AS headcount, "+
				"COALESCE(SUM(base_salary + allowances + bonuses), 0) AS gross, "+
				"COALESCE(SUM(deductions), 0) AS deductions, "+
				"COALESCE(SUM(net_pay), 0) AS net, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS paid_count, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN net_pay ELSE 0 END), 0) AS paid_net, "+
				"COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS unpaid_count, "+
				"COALESCE(SUM(CASE WHEN status <> ? THEN net_pay ELSE 0 END), 0) AS unpaid_net",
			payroll.RecordPaid, payroll.RecordPaid, payroll.RecordPaid, payroll.RecordPaid,
		).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &payroll.PeriodSummary{
		Period:      period,
		Headcount:   row.Headcount,
		Gross:       row.Gross,
		Deductions:  row.Deductions,
		Net:         row.Net,
		PaidCount:   row.PaidCount,
		PaidNet:     row.PaidNet,
		UnpaidCount: row.UnpaidCount,
		UnpaidNet:   row.UnpaidNet,
	}, nil
}

// UnpaidTotal sums net pay of records not yet paid
func (r *GormPayrollRecordRepository) UnpaidTotal(ctx context.Context, scope shared.Scope) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := scoped(r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}), scope, "branch_id").
		Where("status <> ?", payroll.RecordPaid).
		Select("COALESCE(SUM(net_pay), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error
	return row.Total, row.Count, err
}

var _ payroll.RecordRepository = (*GormPayrollRecordRepository)(nil)
