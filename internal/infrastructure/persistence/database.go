package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erp/accounting/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is the PostgreSQL connection shared by every repository
type Database struct {
	DB    *gorm.DB
	sqlDB *sql.DB
}

// NewDatabaseWithCustomLogger opens the pool described by cfg and checks it with a ping.
// gormLogger is usually the zap adapter from the logger package.
func NewDatabaseWithCustomLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return wrap(db, cfg)
}

func wrap(db *gorm.DB, cfg *config.DatabaseConfig) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg != nil {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Database{DB: db, sqlDB: sqlDB}, nil
}

// SQL returns the pool under the GORM handle
func (d *Database) SQL() *sql.DB {
	return d.sqlDB
}

// PingContext reports whether the database answers. It backs the readiness probe.
func (d *Database) PingContext(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

// Close closes the pool
func (d *Database) Close() error {
	return d.sqlDB.Close()
}
