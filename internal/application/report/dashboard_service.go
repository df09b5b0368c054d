package report

import (
	"context"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/finance"
	"github.com/erp/accounting/internal/domain/inventory"
	"github.com/erp/accounting/internal/domain/payroll"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxTrendDays bounds daily trend ranges
const maxTrendDays = 366

// DashboardService computes the fixed reports
type DashboardService struct {
	transactions finance.TransactionRepository
	payables     finance.AccountPayableRepository
	receivables  finance.AccountReceivableRepository
	items        inventory.ItemRepository
	payroll      payroll.RecordRepository
	cache        cache.ReportCache
	ttl          time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService creates a DashboardService. reportCache may be nil.
func NewDashboardService(
	transactions finance.TransactionRepository,
	payables finance.AccountPayableRepository,
	receivables finance.AccountReceivableRepository,
	items inventory.ItemRepository,
	records payroll.RecordRepository,
	reportCache cache.ReportCache,
	ttl time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		transactions: transactions,
		payables:     payables,
		receivables:  receivables,
		items:        items,
		payroll:      records,
		cache:        reportCache,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Dashboard summarizes the current month and the open balances of a scope.
// The independent aggregates run concurrently.
func (s *DashboardService) Dashboard(ctx context.Context, scope shared.Scope) (*report.Dashboard, error) {
	now := s.now()
	start, end := report.MonthBounds(shared.TruncateToDay(now))

	key, err := cache.Key("dashboard", struct {
		Scope shared.Scope
		Day   string
	}{scope, now.Format(shared.DateLayout)})
	if err != nil {
		return nil, err
	}
	if s.cache != nil && s.ttl > 0 {
		var cached report.Dashboard
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	d := &report.Dashboard{PeriodStart: start, PeriodEnd: end.AddDate(0, 0, -1), GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		last := end.AddDate(0, 0, -1)
		totals, err := s.transactions.SumByCategory(gctx, finance.TransactionFilter{Scope: scope, From: &start, To: &last})
		if err != nil {
			return err
		}
		income, expense := decimal.Zero, decimal.Zero
		for _, t := range totals {
			switch t.Type {
			case finance.TransactionTypeIncome:
				income = income.Add(t.Total)
			case finance.TransactionTypeExpense:
				expense = expense.Add(t.Total)
			}
		}
		d.Income, d.Expense, d.Net = income, expense, income.Sub(expense)
		return nil
	})
	g.Go(func() error {
		sum, err := s.payables.Summary(gctx, scope, now, 0)
		if err != nil {
			return err
		}
		d.PayablesOutstanding = sum.TotalOutstanding
		d.PayablesOverdue = sum.OverdueAmount
		d.PayablesOverdueCount = sum.OverdueCount
		return nil
	})
	g.Go(func() error {
		sum, err := s.receivables.Summary(gctx, scope, now, 0)
		if err != nil {
			return err
		}
		d.ReceivablesOutstanding = sum.TotalOutstanding
		d.ReceivablesOverdue = sum.OverdueAmount
		d.ReceivablesOverdueCount = sum.OverdueCount
		return nil
	})
	g.Go(func() error {
		n, err := s.items.CountLowStock(gctx, scope)
		d.LowStockCount = n
		return err
	})
	g.Go(func() error {
		amount, n, err := s.payroll.UnpaidTotal(gctx, scope)
		d.UnpaidPayroll, d.UnpaidPayrollCount = amount, n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return d, nil
}

// Trend returns income, expense and net per day or month. Empty buckets are filled
// with zeros so the series is continuous. Defaults to the last twelve months.
func (s *DashboardService) Trend(ctx context.Context, scope shared.Scope, req TrendRequest) ([]report.TrendPoint, error) {
	interval := report.TrendInterval(strings.ToLower(req.Interval))
	if interval == "" {
		interval = report.IntervalMonth
	}
	if !interval.IsValid() {
		return nil, shared.NewValidationError("interval", "interval must be day or month")
	}

	today := shared.TruncateToDay(s.now())
	to, err := dateOr("to", req.To, today)
	if err != nil {
		return nil, err
	}
	defFrom := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	if interval == report.IntervalDay {
		defFrom = to.AddDate(0, 0, -29)
	}
	from, err := dateOr("from", req.From, defFrom)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, shared.NewValidationError("to", "to must not be before from")
	}
	if interval == report.IntervalDay && to.Sub(from) > maxTrendDays*24*time.Hour {
		return nil, shared.NewValidationError("from", "daily trends cover at most one year")
	}

	rows, err := s.transactions.Trend(ctx, finance.TransactionFilter{Scope: scope, From: &from, To: &to}, string(interval))
	if err != nil {
		return nil, err
	}
	byPeriod := make(map[string]finance.PeriodTotal, len(rows))
	for _, r := range rows {
		byPeriod[r.Period] = r
	}

	var points []report.TrendPoint
	layout, step := "2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if interval == report.IntervalDay {
		layout, step = shared.DateLayout, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		cursor = from
	}
	for ; !cursor.After(to); cursor = step(cursor) {
		period := cursor.Format(layout)
		row, ok := byPeriod[period]
		if !ok {
			row = finance.PeriodTotal{Income: decimal.Zero, Expense: decimal.Zero}
		}
		points = append(points, report.TrendPoint{
			Period:  period,
			Income:  row.Income,
			Expense: row.Expense,
			Net:     row.Income.Sub(row.Expense),
		})
	}
	return points, nil
}

func dateOr(field, value string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	t, err := shared.ParseDate(value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, field+" must use the YYYY-MM-DD format")
	}
	return t, nil
}
