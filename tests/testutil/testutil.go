// Package testutil provides shared helpers for backend tests: mocked and
// in-memory databases, seeded fixtures, and HTTP request helpers.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agrotrade/backend/internal/domain/branch"
	"github.com/agrotrade/backend/internal/domain/identity"
	"github.com/agrotrade/backend/internal/domain/inventory"
	"github.com/agrotrade/backend/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect GORM handle over sqlmock.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewSQLiteDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so every statement sees the same
// database; concurrent transactions therefore run one after another.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate sqlite schema")
	return db
}

// Fixtures seeds rows through the persistence models.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
}

// NewFixtures returns a seeder for db
func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// Branch inserts a branch
func (f *Fixtures) Branch(name string) *branch.Branch {
	f.t.Helper()
	b, err := branch.NewBranch(name, name+" market")
	require.NoError(f.t, err)
	require.NoError(f.t, f.db.Create(models.BranchModelFromDomain(b)).Error)
	return b
}

// User inserts a user with password "secret123"
func (f *Fixtures) User(name string, role identity.Role, branchID *uuid.UUID) *identity.User {
	f.t.Helper()
	u, err := identity.NewUser(name, name+"@agrotrade.test", "secret123", role, branchID)
	require.NoError(f.t, err)
	require.NoError(f.t, f.db.Create(models.UserModelFromDomain(u)).Error)
	return u
}

// Produce inserts a produce row holding stock tonnes
func (f *Fixtures) Produce(branchID uuid.UUID, name string, stock int64) *inventory.Produce {
	f.t.Helper()
	p, err := inventory.NewProduce(name, "grain", branchID, decimal.NewFromInt(stock))
	require.NoError(f.t, err)
	require.NoError(f.t, f.db.Create(models.ProduceModelFromDomain(p)).Error)
	return p
}

// StockOf reads the current stock of a produce row
func (f *Fixtures) StockOf(produceID uuid.UUID) decimal.Decimal {
	f.t.Helper()
	var m models.ProduceModel
	require.NoError(f.t, f.db.First(&m, "id = ?", produceID).Error)
	return m.CurrentStock
}

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
