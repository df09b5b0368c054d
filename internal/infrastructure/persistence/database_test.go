package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// gorm pings once while opening
	mock.ExpectPing()
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestWrapPingsAndAppliesPool(t *testing.T) {
	gormDB, mock := openMock(t)

	mock.ExpectPing()
	db, err := wrap(gormDB, &config.DatabaseConfig{MaxOpenConns: 7, MaxIdleConns: 2, ConnMaxLifetime: 1})
	require.NoError(t, err)
	assert.Equal(t, 7, db.SQL().Stats().MaxOpenConnections)

	mock.ExpectPing()
	assert.NoError(t, db.PingContext(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, db.PingContext(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrapClosesOnFailedPing(t *testing.T) {
	gormDB, mock := openMock(t)

	mock.ExpectPing().WillReturnError(errors.New("no route to host"))
	mock.ExpectClose()

	_, err := wrap(gormDB, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}
