package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Operator is a filter comparison
type Operator string

const (
	OpEq         Operator = "eq"
	OpNeq        Operator = "neq"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "starts_with"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpBetween    Operator = "between"
	OpIsNull     Operator = "is_null"
	OpNotNull    Operator = "not_null"
)

// AggregateFunc is a grouping function
type AggregateFunc string

const (
	AggCount AggregateFunc = "count"
	AggSum   AggregateFunc = "sum"
	AggAvg   AggregateFunc = "avg"
	AggMin   AggregateFunc = "min"
	AggMax   AggregateFunc = "max"
)

// Query errors
var (
	ErrInvalidField     = shared.NewDomainError("INVALID_FIELD", "Unknown or unsupported field")
	ErrInvalidOperator  = shared.NewDomainError("INVALID_OPERATOR", "Operator is not valid for this field")
	ErrInvalidAggregate = shared.NewDomainError("INVALID_AGGREGATE", "Aggregate function is not valid for this field")
	ErrInvalidValue     = shared.NewDomainError("INVALID_VALUE", "Filter value does not match the field type")
	ErrInvalidGrouping  = shared.NewDomainError("INVALID_GROUPING", "Selected fields must be grouped or aggregated")
)

var operatorsByType = map[FieldType][]Operator{
	FieldString:   {OpEq, OpNeq, OpContains, OpStartsWith, OpIn, OpNotIn, OpIsNull, OpNotNull},
	FieldNumber:   {OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn, OpBetween, OpIsNull, OpNotNull},
	FieldCurrency: {OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn, OpBetween, OpIsNull, OpNotNull},
	FieldDate:     {OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpBetween, OpIsNull, OpNotNull},
	FieldEnum:     {OpEq, OpNeq, OpIn, OpNotIn, OpIsNull, OpNotNull},
	FieldBoolean:  {OpEq, OpNeq, OpIsNull, OpNotNull},
}

// OperatorsFor lists the operators a field type accepts
func OperatorsFor(t FieldType) []Operator {
	return operatorsByType[t]
}

func operatorAllowed(t FieldType, op Operator) bool {
	for _, o := range operatorsByType[t] {
		if o == op {
			return true
		}
	}
	return false
}

// FilterSpec is one requested condition
type FilterSpec struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
	Values   []any  `json:"values,omitempty"`
}

// AggregateSpec is one requested aggregate column
type AggregateSpec struct {
	Field    string `json:"field"`
	Function string `json:"function"`
}

// SortSpec is one requested ordering
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Query is an ad-hoc report definition, also stored as the body of saved reports
type Query struct {
	Entity     string          `json:"entity"`
	Fields     []string        `json:"fields,omitempty"`
	Filters    []FilterSpec    `json:"filters,omitempty"`
	GroupBy    []string        `json:"group_by,omitempty"`
	Aggregates []AggregateSpec `json:"aggregates,omitempty"`
	Sort       []SortSpec      `json:"sort,omitempty"`
	Page       int             `json:"page,omitempty"`
	PageSize   int             `json:"page_size,omitempty"`
}

// PlanColumn is a resolved output column
type PlanColumn struct {
	Key       string
	Label     string
	Type      FieldType
	Expr      string
	Aggregate AggregateFunc
	Field     *Field
}

// Condition is a resolved filter with typed, bound arguments
type Condition struct {
	Field    *Field
	Operator Operator
	Args     []any
}

// SortTerm orders by an output column alias
type SortTerm struct {
	Key  string
	Desc bool
}

// Plan is a query checked against the registry. Everything an SQL builder needs is
// either a registered expression or a bound argument.
type Plan struct {
	Entity     *Entity
	Columns    []PlanColumn
	Conditions []Condition
	GroupBy    []*Field
	Sort       []SortTerm
	Page       int
	PageSize   int
}

// Grouped reports whether the plan aggregates rows
func (p *Plan) Grouped() bool {
	return len(p.GroupBy) > 0 || p.hasAggregates()
}

func (p *Plan) hasAggregates() bool {
	for _, c := range p.Columns {
		if c.Aggregate != "" {
			return true
		}
	}
	return false
}

// Offset is the row offset of the requested page
func (p *Plan) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalColumns are the numeric aggregatable columns that get grand totals
func (p *Plan) TotalColumns() []PlanColumn {
	var out []PlanColumn
	for _, c := range p.Columns {
		if c.Field != nil && c.Field.Aggregatable && c.Field.Type.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// Limits bound page sizes
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits are used when config provides none
var DefaultLimits = Limits{DefaultPageSize: 50, MaxPageSize: 500}

// Compile validates q against the registry and resolves it into a plan
func (r *Registry) Compile(q Query, limits Limits) (*Plan, error) {
	entity, err := r.Entity(strings.TrimSpace(q.Entity))
	if err != nil {
		return nil, err
	}
	plan := &Plan{Entity: entity}

	for _, key := range q.GroupBy {
		f, err := lookup(entity, key)
		if err != nil {
			return nil, err
		}
		if !f.Groupable {
			return nil, ErrInvalidField.WithDetail("field", key).WithDetail("reason", "not groupable")
		}
		plan.GroupBy = append(plan.GroupBy, f)
	}
	grouped := len(q.GroupBy) > 0 || len(q.Aggregates) > 0

	fields := q.Fields
	if len(fields) == 0 && !grouped {
		fields = entity.FieldKeys()
	}
	seen := map[string]bool{}
	for _, key := range fields {
		f, err := lookup(entity, key)
		if err != nil {
			return nil, err
		}
		if grouped && !containsField(plan.GroupBy, f) {
			return nil, ErrInvalidGrouping.WithDetail("field", key)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.Columns = append(plan.Columns, PlanColumn{Key: f.Key, Label: f.Label, Type: f.Type, Expr: f.Column, Field: f})
	}
	// group columns are always part of the output
	for _, f := range plan.GroupBy {
		if !seen[f.Key] {
			seen[f.Key] = true
			plan.Columns = append(plan.Columns, PlanColumn{Key: f.Key, Label: f.Label, Type: f.Type, Expr: f.Column, Field: f})
		}
	}

	for _, a := range q.Aggregates {
		col, err := compileAggregate(entity, a)
		if err != nil {
			return nil, err
		}
		if seen[col.Key] {
			continue
		}
		seen[col.Key] = true
		plan.Columns = append(plan.Columns, col)
	}

	for _, fs := range q.Filters {
		c, err := compileFilter(entity, fs)
		if err != nil {
			return nil, err
		}
		plan.Conditions = append(plan.Conditions, c)
	}

	for _, s := range q.Sort {
		term, err := compileSort(entity, plan, s, seen)
		if err != nil {
			return nil, err
		}
		plan.Sort = append(plan.Sort, term)
	}
	if len(plan.Sort) == 0 {
		plan.Sort = defaultSort(plan)
	}

	plan.Page, plan.PageSize = normalizePage(q.Page, q.PageSize, limits)
	return plan, nil
}

func lookup(e *Entity, key string) (*Field, error) {
	f, ok := e.Field(strings.TrimSpace(key))
	if !ok {
		return nil, ErrInvalidField.WithDetail("field", key).WithDetail("entity", e.Key)
	}
	return f, nil
}

func containsField(fields []*Field, f *Field) bool {
	for _, g := range fields {
		if g.Key == f.Key {
			return true
		}
	}
	return false
}

func compileAggregate(e *Entity, a AggregateSpec) (PlanColumn, error) {
	fn := AggregateFunc(strings.ToLower(strings.TrimSpace(a.Function)))
	if fn == AggCount && (a.Field == "" || a.Field == "*") {
		return PlanColumn{Key: "count", Label: "Count", Type: FieldNumber, Expr: "*", Aggregate: AggCount}, nil
	}
	f, err := lookup(e, a.Field)
	if err != nil {
		return PlanColumn{}, err
	}
	switch fn {
	case AggCount:
	case AggSum, AggAvg:
		if !f.Type.IsNumeric() || !f.Aggregatable {
			return PlanColumn{}, ErrInvalidAggregate.WithDetail("field", f.Key).WithDetail("function", string(fn))
		}
	case AggMin, AggMax:
		if !f.Type.IsNumeric() && f.Type != FieldDate {
			return PlanColumn{}, ErrInvalidAggregate.WithDetail("field", f.Key).WithDetail("function", string(fn))
		}
	default:
		return PlanColumn{}, ErrInvalidAggregate.WithDetail("function", a.Function)
	}
	typ := f.Type
	if fn == AggCount {
		typ = FieldNumber
	}
	return PlanColumn{
		Key:       string(fn) + "_" + f.Key,
		Label:     LabelFromKey(string(fn)) + " of " + f.Label,
		Type:      typ,
		Expr:      f.Column,
		Aggregate: fn,
		Field:     f,
	}, nil
}

func compileFilter(e *Entity, fs FilterSpec) (Condition, error) {
	f, err := lookup(e, fs.Field)
	if err != nil {
		return Condition{}, err
	}
	if !f.Filterable {
		return Condition{}, ErrInvalidField.WithDetail("field", f.Key).WithDetail("reason", "not filterable")
	}
	op := Operator(strings.ToLower(strings.TrimSpace(fs.Operator)))
	if !operatorAllowed(f.Type, op) {
		return Condition{}, ErrInvalidOperator.WithDetail("field", f.Key).WithDetail("operator", fs.Operator)
	}
	c := Condition{Field: f, Operator: op}

	switch op {
	case OpIsNull, OpNotNull:
		return c, nil
	case OpIn, OpNotIn:
		if len(fs.Values) == 0 {
			return Condition{}, ErrInvalidValue.WithDetail("field", f.Key).WithDetail("reason", "values are required")
		}
		if len(fs.Values) > 200 {
			return Condition{}, ErrInvalidValue.WithDetail("field", f.Key).WithDetail("reason", "too many values")
		}
		for _, raw := range fs.Values {
			v, err := coerce(f, raw)
			if err != nil {
				return Condition{}, err
			}
			c.Args = append(c.Args, v)
		}
	case OpBetween:
		if len(fs.Values) != 2 {
			return Condition{}, ErrInvalidValue.WithDetail("field", f.Key).WithDetail("reason", "between needs exactly two values")
		}
		for _, raw := range fs.Values {
			v, err := coerce(f, raw)
			if err != nil {
				return Condition{}, err
			}
			c.Args = append(c.Args, v)
		}
	default:
		v, err := coerce(f, fs.Value)
		if err != nil {
			return Condition{}, err
		}
		if op == OpContains || op == OpStartsWith {
			s := escapeLike(v.(string))
			if op == OpContains {
				s = "%" + s + "%"
			} else {
				s += "%"
			}
			v = s
		}
		c.Args = []any{v}
	}
	return c, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// coerce converts a JSON value into the Go type bound for the field
func coerce(f *Field, raw any) (any, error) {
	bad := func() (any, error) {
		return nil, ErrInvalidValue.WithDetail("field", f.Key).WithDetail("value", fmt.Sprint(raw))
	}
	if raw == nil {
		return bad()
	}
	switch f.Type {
	case FieldString:
		s, ok := raw.(string)
		if !ok {
			return bad()
		}
		return s, nil
	case FieldEnum:
		s, ok := raw.(string)
		if !ok || !f.HasOption(s) {
			return bad()
		}
		return s, nil
	case FieldNumber, FieldCurrency:
		var d decimal.Decimal
		var err error
		switch v := raw.(type) {
		case float64:
			d = decimal.NewFromFloat(v)
		case int:
			d = decimal.NewFromInt(int64(v))
		case int64:
			d = decimal.NewFromInt(v)
		case json.Number:
			d, err = decimal.NewFromString(v.String())
		case string:
			d, err = decimal.NewFromString(strings.TrimSpace(v))
		case decimal.Decimal:
			d = v
		default:
			return bad()
		}
		if err != nil {
			return bad()
		}
		return d, nil
	case FieldDate:
		switch v := raw.(type) {
		case string:
			t, err := time.Parse(shared.DateLayout, strings.TrimSpace(v))
			if err != nil {
				if t, err = time.Parse(time.RFC3339, strings.TrimSpace(v)); err != nil {
					return bad()
				}
			}
			return t, nil
		case time.Time:
			return v, nil
		}
		return bad()
	case FieldBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(v) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
		return bad()
	}
	return bad()
}

func compileSort(e *Entity, plan *Plan, s SortSpec, selected map[string]bool) (SortTerm, error) {
	key := strings.TrimSpace(s.Field)
	desc := strings.EqualFold(strings.TrimSpace(s.Direction), "desc")
	if plan.Grouped() {
		if !selected[key] {
			return SortTerm{}, ErrInvalidField.WithDetail("field", key).WithDetail("reason", "sort must use an output column")
		}
		return SortTerm{Key: key, Desc: desc}, nil
	}
	f, err := lookup(e, key)
	if err != nil {
		return SortTerm{}, err
	}
	if !f.Sortable {
		return SortTerm{}, ErrInvalidField.WithDetail("field", key).WithDetail("reason", "not sortable")
	}
	if !selected[key] {
		plan.Columns = append(plan.Columns, PlanColumn{Key: f.Key, Label: f.Label, Type: f.Type, Expr: f.Column, Field: f})
		selected[key] = true
	}
	return SortTerm{Key: key, Desc: desc}, nil
}

func defaultSort(plan *Plan) []SortTerm {
	if plan.Grouped() {
		if len(plan.GroupBy) > 0 {
			return []SortTerm{{Key: plan.GroupBy[0].Key}}
		}
		return nil
	}
	for _, c := range plan.Columns {
		if c.Key == plan.Entity.DefaultSort {
			return []SortTerm{{Key: c.Key, Desc: c.Type == FieldDate}}
		}
	}
	if len(plan.Columns) > 0 {
		return []SortTerm{{Key: plan.Columns[0].Key}}
	}
	return nil
}

func normalizePage(page, size int, limits Limits) (int, int) {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = DefaultLimits.DefaultPageSize
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = DefaultLimits.MaxPageSize
	}
	page = shared.ClampPage(page)
	if size <= 0 {
		size = limits.DefaultPageSize
	}
	if size > limits.MaxPageSize {
		size = limits.MaxPageSize
	}
	return page, size
}
