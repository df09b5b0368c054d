package report

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/accounting/internal/domain/shared"
)

func TestDefaultRegistry_Entities(t *testing.T) {
	r := DefaultRegistry()
	entities := r.Entities()
	require.Len(t, entities, 9)
	assert.Equal(t, EntityContacts, entities[0].Key)

	e, err := r.Entity(EntityPayables)
	require.NoError(t, err)
	assert.Equal(t, "Accounts Payable", e.Label)
	f, ok := e.Field("paid_amount")
	require.True(t, ok)
	assert.Equal(t, "Paid Amount", f.Label)
	assert.Equal(t, FieldCurrency, f.Type)

	_, err = r.Entity("users")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestCompile_DefaultsToAllFields(t *testing.T) {
	r := DefaultRegistry()
	plan, err := r.Compile(Query{Entity: EntityTransactions}, DefaultLimits)
	require.NoError(t, err)

	e, _ := r.Entity(EntityTransactions)
	assert.Len(t, plan.Columns, len(e.Fields))
	assert.Equal(t, 1, plan.Page)
	assert.Equal(t, 50, plan.PageSize)
	require.Len(t, plan.Sort, 1)
	assert.Equal(t, SortTerm{Key: "date", Desc: true}, plan.Sort[0])
	assert.False(t, plan.Grouped())
}

func TestCompile_PageSizeCapped(t *testing.T) {
	plan, err := DefaultRegistry().Compile(Query{Entity: EntityContacts, PageSize: 10000, Page: -3}, Limits{MaxPageSize: 200})
	require.NoError(t, err)
	assert.Equal(t, 200, plan.PageSize)
	assert.Equal(t, 1, plan.Page)
}

func TestCompile_HugePageIsClamped(t *testing.T) {
	plan, err := DefaultRegistry().Compile(Query{Entity: EntityContacts, PageSize: 500, Page: math.MaxInt}, Limits{})
	require.NoError(t, err)
	assert.Equal(t, shared.MaxPage, plan.Page)
	assert.Equal(t, (shared.MaxPage-1)*500, plan.Offset())
	assert.Positive(t, plan.Offset())
}

func TestCompile_RejectsUnknownIdentifiers(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name string
		q    Query
		err  error
	}{
		{"unknown entity", Query{Entity: "users; drop table users"}, ErrUnknownEntity},
		{"unknown field", Query{Entity: EntityTransactions, Fields: []string{"password_hash"}}, ErrInvalidField},
		{"injection in field", Query{Entity: EntityTransactions, Fields: []string{"amount) --"}}, ErrInvalidField},
		{"unknown filter field", Query{Entity: EntityTransactions, Filters: []FilterSpec{{Field: "x", Operator: "eq", Value: "1"}}}, ErrInvalidField},
		{"bad operator for type", Query{Entity: EntityTransactions, Filters: []FilterSpec{{Field: "amount", Operator: "contains", Value: "1"}}}, ErrInvalidOperator},
		{"bad enum value", Query{Entity: EntityTransactions, Filters: []FilterSpec{{Field: "type", Operator: "eq", Value: "GIFT"}}}, ErrInvalidValue},
		{"bad number", Query{Entity: EntityTransactions, Filters: []FilterSpec{{Field: "amount", Operator: "gt", Value: "lots"}}}, ErrInvalidValue},
		{"between arity", Query{Entity: EntityTransactions, Filters: []FilterSpec{{Field: "amount", Operator: "between", Values: []any{1.0}}}}, ErrInvalidValue},
		{"sum on text", Query{Entity: EntityTransactions, Aggregates: []AggregateSpec{{Field: "category", Function: "sum"}}}, ErrInvalidAggregate},
		{"unknown function", Query{Entity: EntityTransactions, Aggregates: []AggregateSpec{{Field: "amount", Function: "median"}}}, ErrInvalidAggregate},
		{"ungrouped field", Query{Entity: EntityTransactions, Fields: []string{"category", "amount"}, GroupBy: []string{"category"}}, ErrInvalidGrouping},
		{"group on money", Query{Entity: EntityTransactions, GroupBy: []string{"amount"}}, ErrInvalidField},
		{"sort on unselected in group", Query{Entity: EntityTransactions, GroupBy: []string{"category"}, Sort: []SortSpec{{Field: "date"}}}, ErrInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Compile(tt.q, DefaultLimits)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCompile_GroupedQuery(t *testing.T) {
	plan, err := DefaultRegistry().Compile(Query{
		Entity:     EntityTransactions,
		GroupBy:    []string{"category"},
		Aggregates: []AggregateSpec{{Field: "amount", Function: "sum"}, {Function: "count"}},
		Sort:       []SortSpec{{Field: "sum_amount", Direction: "DESC"}},
	}, DefaultLimits)
	require.NoError(t, err)
	assert.True(t, plan.Grouped())

	keys := make([]string, len(plan.Columns))
	for i, c := range plan.Columns {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{"category", "sum_amount", "count"}, keys)
	assert.Equal(t, []SortTerm{{Key: "sum_amount", Desc: true}}, plan.Sort)
	assert.Equal(t, "Sum of Amount", plan.Columns[1].Label)

	totals := plan.TotalColumns()
	require.Len(t, totals, 1)
	assert.Equal(t, "sum_amount", totals[0].Key)
}

func TestCompile_FilterValues(t *testing.T) {
	plan, err := DefaultRegistry().Compile(Query{
		Entity: EntityPayables,
		Filters: []FilterSpec{
			{Field: "amount", Operator: "between", Values: []any{10.5, "100"}},
			{Field: "supplier_name", Operator: "contains", Value: "50%_off"},
			{Field: "status", Operator: "in", Values: []any{"PENDING", "PARTIAL"}},
			{Field: "due_date", Operator: "lt", Value: "2025-01-31"},
			{Field: "migrated", Operator: "eq", Value: true},
			{Field: "due_date", Operator: "is_null"},
		},
	}, DefaultLimits)
	require.NoError(t, err)
	require.Len(t, plan.Conditions, 6)

	assert.True(t, plan.Conditions[0].Args[0].(decimal.Decimal).Equal(decimal.RequireFromString("10.5")))
	assert.True(t, plan.Conditions[0].Args[1].(decimal.Decimal).Equal(decimal.NewFromInt(100)))
	assert.Equal(t, `%50\%\_off%`, plan.Conditions[1].Args[0])
	assert.Equal(t, []any{"PENDING", "PARTIAL"}, plan.Conditions[2].Args)
	assert.Equal(t, 2025, plan.Conditions[3].Args[0].(interface{ Year() int }).Year())
	assert.Equal(t, true, plan.Conditions[4].Args[0])
	assert.Empty(t, plan.Conditions[5].Args)
}

func TestCompile_SortAddsColumn(t *testing.T) {
	plan, err := DefaultRegistry().Compile(Query{
		Entity: EntityContacts,
		Fields: []string{"name"},
		Sort:   []SortSpec{{Field: "created_at", Direction: "asc"}},
	}, DefaultLimits)
	require.NoError(t, err)
	assert.Len(t, plan.Columns, 2)
	assert.Equal(t, []SortTerm{{Key: "created_at"}}, plan.Sort)
}

func TestOperatorsFor(t *testing.T) {
	assert.Contains(t, OperatorsFor(FieldString), OpStartsWith)
	assert.NotContains(t, OperatorsFor(FieldBoolean), OpGt)
	assert.NotContains(t, OperatorsFor(FieldDate), OpContains)
}

func TestErrorsAreDomainErrors(t *testing.T) {
	_, err := DefaultRegistry().Compile(Query{Entity: EntityTransactions, Fields: []string{"nope"}}, DefaultLimits)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_FIELD", de.Code)
	assert.Equal(t, "nope", de.Details["field"])
}
