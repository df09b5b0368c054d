package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetrics_RecordTransaction(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTransaction(ctx, "b1", "EXPENSE", "MANUAL", decimal.RequireFromString("100.50"))
	m.RecordTransaction(ctx, "b1", "EXPENSE", "MANUAL", decimal.RequireFromString("20"))

	data := collect(t, reader)
	count, ok := data["accounting_transactions_recorded_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, count.DataPoints, 1)
	assert.Equal(t, int64(2), count.DataPoints[0].Value)
	v, _ := count.DataPoints[0].Attributes.Value(AttrTxnType)
	assert.Equal(t, "EXPENSE", v.AsString())

	amount, ok := data["accounting_transaction_amount_total"].(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 120.5, amount.DataPoints[0].Value, 0.001)
}

func TestMetrics_RecordReportStatus(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordReport(ctx, "transactions", "csv", 20*time.Millisecond, nil)
	m.RecordReport(ctx, "transactions", "csv", time.Second, errors.New("boom"))

	data := collect(t, reader)
	queries := data["accounting_report_queries_total"].(metricdata.Sum[int64])
	byStatus := map[string]int64{}
	for _, dp := range queries.DataPoints {
		v, _ := dp.Attributes.Value(AttrStatus)
		byStatus[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ok": 1, "error": 1}, byStatus)

	hist := data["accounting_report_duration_seconds"].(metricdata.Histogram[float64])
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(2), total)
}

func TestMetrics_CountersSkipNonPositive(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordNotifications(ctx, "PAYABLE_DUE", 0)
	m.RecordMigratedDebts(ctx, -1)
	m.RecordNotifications(ctx, "PAYABLE_DUE", 3)
	m.RecordJob(ctx, "due_reminders", nil)
	m.RecordSettlement(ctx, DocumentPayable, "BANK")

	data := collect(t, reader)
	notif := data["accounting_notifications_created_total"].(metricdata.Sum[int64])
	require.Len(t, notif.DataPoints, 1)
	assert.Equal(t, int64(3), notif.DataPoints[0].Value)
	assert.True(t, notif.DataPoints[0].Attributes.HasValue(AttrNotifType))

	_, migrated := data["accounting_debts_migrated_total"]
	assert.False(t, migrated)

	settle := data["accounting_settlements_total"].(metricdata.Sum[int64])
	assert.Equal(t, attribute.NewSet(AttrDocument.String("payable"), AttrMethod.String("BANK")), settle.DataPoints[0].Attributes)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordTransaction(ctx, "b", "INCOME", "MANUAL", decimal.NewFromInt(1))
		m.RecordSettlement(ctx, DocumentDebt, "CASH")
		m.RecordReport(ctx, "x", "json", time.Millisecond, nil)
		m.RecordJob(ctx, "j", nil)
		m.RecordNotifications(ctx, "t", 1)
		m.RecordMigratedDebts(ctx, 1)
	})
}
