package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowQueryStartKey = "telemetry:query_start"

// DBConfig configures database instrumentation
type DBConfig struct {
	DBName           string
	IncludeVariables bool
	SlowQuery        time.Duration
}

// InstrumentGorm adds otelgorm spans and a slow query warning to db
func InstrumentGorm(db *gorm.DB, cfg DBConfig, logger *zap.Logger) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if cfg.SlowQuery <= 0 {
		return nil
	}

	before := func(tx *gorm.DB) { tx.InstanceSet(slowQueryStartKey, time.Now()) }
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(slowQueryStartKey)
		if !ok {
			return
		}
		took := time.Since(v.(time.Time))
		if took < cfg.SlowQuery {
			return
		}
		logger.Warn("Slow query",
			zap.String("table", tx.Statement.Table),
			zap.Duration("duration", took),
			zap.Int64("rows", tx.Statement.RowsAffected),
			zap.String("trace_id", GetTraceID(tx.Statement.Context)),
		)
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after),
	)
}

// ObservePool exports connection pool statistics as observable gauges
func ObservePool(meter metric.Meter, sqlDB *sql.DB) error {
	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open connections"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections",
		metric.WithDescription("Connections currently in use"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_count_total",
		metric.WithDescription("Connections waited for"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(open, int64(s.OpenConnections))
		o.ObserveInt64(inUse, int64(s.InUse))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, open, inUse, waits)
	return err
}
