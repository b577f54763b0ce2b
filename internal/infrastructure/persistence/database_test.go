package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agrotrade/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormConfig(t *testing.T) {
	cfg := GormConfig(nil)
	assert.True(t, cfg.TranslateError, "repositories rely on translated driver errors")
	assert.True(t, cfg.SkipDefaultTransaction)
	assert.NotNil(t, cfg.Logger)

	custom := logger.Default.LogMode(logger.Info)
	assert.Same(t, custom, GormConfig(custom).Logger)
}

func TestDatabase_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	database := &Database{DB: db}

	mock.ExpectPing()
	assert.NoError(t, database.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_StatsAndClose(t *testing.T) {
	m := testutil.NewMockDB(t)
	database := &Database{DB: m.DB}

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)

	m.Mock.ExpectClose()
	require.NoError(t, database.Close())
	m.ExpectationsWereMet(t)
}
