package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormQueryRunner executes compiled smart report plans with GORM.
// Column expressions come from the report registry; filter values are always bound.
type GormQueryRunner struct {
	db *gorm.DB
}

// NewGormQueryRunner creates a new GormQueryRunner
func NewGormQueryRunner(db *gorm.DB) *GormQueryRunner {
	return &GormQueryRunner{db: db}
}

// Run executes one page of the plan, with the total row count and grand totals
func (r *GormQueryRunner) Run(ctx context.Context, plan *report.Plan, scope shared.Scope) (*report.Result, error) {
	base := r.base(ctx, plan, scope)

	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS q", base).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count report rows: %w", err)
	}

	query := orderPlan(r.base(ctx, plan, scope), plan)
	if plan.PageSize > 0 {
		query = query.Offset(plan.Offset()).Limit(plan.PageSize)
	}
	rows, err := r.fetch(query, plan)
	if err != nil {
		return nil, err
	}

	totals, err := r.totals(ctx, plan, scope)
	if err != nil {
		return nil, err
	}

	return &report.Result{
		Columns:  report.ColumnsOf(plan),
		Rows:     rows,
		Total:    total,
		Page:     plan.Page,
		PageSize: plan.PageSize,
		Totals:   totals,
	}, nil
}

// RunAll executes the plan without paging, capped at limit rows
func (r *GormQueryRunner) RunAll(ctx context.Context, plan *report.Plan, scope shared.Scope, limit int) (*report.Result, error) {
	query := orderPlan(r.base(ctx, plan, scope), plan)
	if limit > 0 {
		query = query.Limit(limit)
	}
	rows, err := r.fetch(query, plan)
	if err != nil {
		return nil, err
	}
	totals, err := r.totals(ctx, plan, scope)
	if err != nil {
		return nil, err
	}
	return &report.Result{
		Columns:  report.ColumnsOf(plan),
		Rows:     rows,
		Total:    int64(len(rows)),
		Page:     1,
		PageSize: len(rows),
		Totals:   totals,
	}, nil
}

// base builds the filtered, grouped SELECT without ordering or paging
func (r *GormQueryRunner) base(ctx context.Context, plan *report.Plan, scope shared.Scope) *gorm.DB {
	query := r.db.WithContext(ctx).Table(plan.Entity.From)

	selects := make([]string, len(plan.Columns))
	for i, c := range plan.Columns {
		selects[i] = selectExpr(c) + " AS " + quoteAlias(c.Key)
	}
	query = query.Select(strings.Join(selects, ", "))

	query = scoped(query, scope, plan.Entity.BranchColumn)
	for _, c := range plan.Conditions {
		sql, args := conditionSQL(c)
		query = query.Where(sql, args...)
	}
	for _, g := range plan.GroupBy {
		query = query.Group(g.Column)
	}
	return query
}

func orderPlan(query *gorm.DB, plan *report.Plan) *gorm.DB {
	for _, s := range plan.Sort {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		query = query.Order(quoteAlias(s.Key) + dir)
	}
	return query
}

func (r *GormQueryRunner) fetch(query *gorm.DB, plan *report.Plan) ([]map[string]any, error) {
	var raw []map[string]any
	if err := query.Find(&raw).Error; err != nil {
		return nil, fmt.Errorf("run report query: %w", err)
	}
	rows := make([]map[string]any, len(raw))
	for i, row := range raw {
		out := make(map[string]any, len(plan.Columns))
		for _, c := range plan.Columns {
			out[c.Key] = normalizeValue(c.Type, row[c.Key])
		}
		rows[i] = out
	}
	return rows, nil
}

// totals sums numeric aggregatable columns over every matching row, ignoring paging.
// Averages and extremes have no meaningful grand total and are left out.
func (r *GormQueryRunner) totals(ctx context.Context, plan *report.Plan, scope shared.Scope) (map[string]any, error) {
	cols := plan.TotalColumns()
	totals := map[string]any{}
	var sums []string
	for _, c := range cols {
		switch c.Aggregate {
		case report.AggAvg, report.AggMin, report.AggMax:
			continue
		}
		alias := quoteAlias(c.Key)
		sums = append(sums, "COALESCE(SUM(q."+alias+"), 0) AS "+alias)
	}
	if len(sums) == 0 {
		return totals, nil
	}
	var raw map[string]any
	err := r.db.WithContext(ctx).
		Table("(?) AS q", r.base(ctx, plan, scope)).
		Select(strings.Join(sums, ", ")).
		Take(&raw).Error
	if err != nil {
		return nil, fmt.Errorf("compute report totals: %w", err)
	}
	for _, c := range cols {
		if v, ok := raw[c.Key]; ok {
			totals[c.Key] = normalizeValue(c.Type, v)
		}
	}
	return totals, nil
}

func selectExpr(c report.PlanColumn) string {
	switch c.Aggregate {
	case "":
		return c.Expr
	case report.AggCount:
		return "COUNT(" + c.Expr + ")"
	default:
		return strings.ToUpper(string(c.Aggregate)) + "(" + c.Expr + ")"
	}
}

func quoteAlias(key string) string {
	return `"` + strings.ReplaceAll(key, `"`, "") + `"`
}

func conditionSQL(c report.Condition) (string, []any) {
	col := c.Field.Column
	switch c.Operator {
	case report.OpEq:
		return col + " = ?", c.Args
	case report.OpNeq:
		return col + " <> ?", c.Args
	case report.OpGt:
		return col + " > ?", c.Args
	case report.OpGte:
		return col + " >= ?", c.Args
	case report.OpLt:
		return col + " < ?", c.Args
	case report.OpLte:
		return col + " <= ?", c.Args
	case report.OpContains, report.OpStartsWith:
		return "LOWER(" + col + ") LIKE LOWER(?) ESCAPE '\\'", c.Args
	case report.OpIn:
		return col + " IN ?", []any{c.Args}
	case report.OpNotIn:
		return col + " NOT IN ?", []any{c.Args}
	case report.OpBetween:
		return col + " BETWEEN ? AND ?", c.Args
	case report.OpIsNull:
		return col + " IS NULL", nil
	case report.OpNotNull:
		return col + " IS NOT NULL", nil
	}
	// unreachable for compiled plans
	return "1 = 0", nil
}

// normalizeValue converts driver values into stable JSON-friendly types
func normalizeValue(t report.FieldType, v any) any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch t {
	case report.FieldCurrency, report.FieldNumber:
		switch n := v.(type) {
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				return d
			}
		case int64:
			return decimal.NewFromInt(n)
		case float64:
			return decimal.NewFromFloat(n)
		case decimal.Decimal:
			return n
		}
	case report.FieldDate:
		switch d := v.(type) {
		case time.Time:
			return d.Format(shared.DateLayout)
		case string:
			if len(d) >= len(shared.DateLayout) {
				return d[:len(shared.DateLayout)]
			}
		}
	case report.FieldBoolean:
		switch b := v.(type) {
		case int64:
			return b != 0
		case string:
			return b == "1" || strings.EqualFold(b, "true") || b == "t"
		}
	}
	return v
}

var _ report.QueryRunner = (*GormQueryRunner)(nil)
