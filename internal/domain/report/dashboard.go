package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard is the landing page summary of a scope
type Dashboard struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`

	PayablesOutstanding     decimal.Decimal `json:"payables_outstanding"`
	PayablesOverdue         decimal.Decimal `json:"payables_overdue"`
	PayablesOverdueCount    int64           `json:"payables_overdue_count"`
	ReceivablesOutstanding  decimal.Decimal `json:"receivables_outstanding"`
	ReceivablesOverdue      decimal.Decimal `json:"receivables_overdue"`
	ReceivablesOverdueCount int64           `json:"receivables_overdue_count"`

	LowStockCount int64 `json:"low_stock_count"`

	UnpaidPayroll      decimal.Decimal `json:"unpaid_payroll"`
	UnpaidPayrollCount int64           `json:"unpaid_payroll_count"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TrendInterval is the bucket size of a trend series
type TrendInterval string

const (
	IntervalDay   TrendInterval = "day"
	IntervalMonth TrendInterval = "month"
)

// IsValid checks the interval
func (i TrendInterval) IsValid() bool {
	return i == IntervalDay || i == IntervalMonth
}

// TrendPoint is one bucket of an income/expense series
type TrendPoint struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// MonthBounds returns the first day of t's month and the first day of the next month
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
