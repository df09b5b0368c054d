package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared by the accounting instruments
var (
	AttrBranchID  = attribute.Key("branch_id")
	AttrTxnType   = attribute.Key("transaction_type")
	AttrSource    = attribute.Key("source")
	AttrDocument  = attribute.Key("document")
	AttrMethod    = attribute.Key("payment_method")
	AttrEntity    = attribute.Key("entity")
	AttrFormat    = attribute.Key("format")
	AttrJob       = attribute.Key("job")
	AttrStatus    = attribute.Key("status")
	AttrNotifType = attribute.Key("notification_type")
)

// Document kinds used by RecordSettlement
const (
	DocumentPayable    = "payable"
	DocumentReceivable = "receivable"
	DocumentDebt       = "debt"
	DocumentPayroll    = "payroll"
)

// Metrics holds the business instruments. A nil *Metrics is valid and records nothing,
// so services can take it as an optional dependency.
type Metrics struct {
	transactions   metric.Int64Counter
	txnAmount      metric.Float64Counter
	settlements    metric.Int64Counter
	reportQueries  metric.Int64Counter
	reportDuration metric.Float64Histogram
	jobRuns        metric.Int64Counter
	notifications  metric.Int64Counter
	migratedDebts  metric.Int64Counter
}

// NewMetrics registers the instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	if m.transactions, err = meter.Int64Counter("accounting_transactions_recorded_total",
		metric.WithDescription("Transactions recorded"), metric.WithUnit("{transactions}")); err != nil {
		return nil, err
	}
	if m.txnAmount, err = meter.Float64Counter("accounting_transaction_amount_total",
		metric.WithDescription("Sum of recorded transaction amounts")); err != nil {
		return nil, err
	}
	if m.settlements, err = meter.Int64Counter("accounting_settlements_total",
		metric.WithDescription("Payments and receipts applied to documents"), metric.WithUnit("{payments}")); err != nil {
		return nil, err
	}
	if m.reportQueries, err = meter.Int64Counter("accounting_report_queries_total",
		metric.WithDescription("Smart report executions"), metric.WithUnit("{queries}")); err != nil {
		return nil, err
	}
	if m.reportDuration, err = meter.Float64Histogram("accounting_report_duration_seconds",
		metric.WithDescription("Smart report execution time"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10)); err != nil {
		return nil, err
	}
	if m.jobRuns, err = meter.Int64Counter("accounting_job_runs_total",
		metric.WithDescription("Background job completions"), metric.WithUnit("{runs}")); err != nil {
		return nil, err
	}
	if m.notifications, err = meter.Int64Counter("accounting_notifications_created_total",
		metric.WithDescription("Notifications created"), metric.WithUnit("{notifications}")); err != nil {
		return nil, err
	}
	if m.migratedDebts, err = meter.Int64Counter("accounting_debts_migrated_total",
		metric.WithDescription("Legacy debts converted to payables"), metric.WithUnit("{debts}")); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordTransaction counts a recorded income or expense
func (m *Metrics) RecordTransaction(ctx context.Context, branchID, txnType, source string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrBranchID.String(branchID), AttrTxnType.String(txnType), AttrSource.String(source))
	m.transactions.Add(ctx, 1, attrs)
	m.txnAmount.Add(ctx, amount.InexactFloat64(), attrs)
}

// RecordSettlement counts a payment or receipt applied to a document
func (m *Metrics) RecordSettlement(ctx context.Context, document, method string) {
	if m == nil {
		return
	}
	m.settlements.Add(ctx, 1, metric.WithAttributes(AttrDocument.String(document), AttrMethod.String(method)))
}

// RecordReport counts one report execution and its latency. format is "json", "csv" or "pdf".
func (m *Metrics) RecordReport(ctx context.Context, entity, format string, took time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrEntity.String(entity), AttrFormat.String(format), AttrStatus.String(statusOf(err)))
	m.reportQueries.Add(ctx, 1, attrs)
	m.reportDuration.Record(ctx, took.Seconds(), attrs)
}

// RecordJob counts a finished background job
func (m *Metrics) RecordJob(ctx context.Context, job string, err error) {
	if m == nil {
		return
	}
	m.jobRuns.Add(ctx, 1, metric.WithAttributes(AttrJob.String(job), AttrStatus.String(statusOf(err))))
}

// RecordNotifications counts created notifications
func (m *Metrics) RecordNotifications(ctx context.Context, notifType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notifications.Add(ctx, int64(n), metric.WithAttributes(AttrNotifType.String(notifType)))
}

// RecordMigratedDebts counts debts converted by the migration run
func (m *Metrics) RecordMigratedDebts(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.migratedDebts.Add(ctx, int64(n))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
