// Package migration applies the versioned SQL files under migrations/.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator runs golang-migrate against the agrotrade schema
type Migrator struct {
	migrate *migrate.Migrate
	path    string
	logger  *zap.Logger
}

// New builds a Migrator on an open postgres handle
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "agrotrade_schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, path: migrationsPath, logger: logger}, nil
}

// NewFromURL builds a Migrator from a postgres:// URL. Used by the
// integration suite, which only has a container connection string.
func NewFromURL(databaseURL, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, path: migrationsPath, logger: logger}, nil
}

// run executes step and treats ErrNoChange as success
func (m *Migrator) run(action string, step func() error) error {
	err := step()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already up to date", zap.String("action", action))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration applied",
		zap.String("action", action),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.run("up", m.migrate.Up)
}

// Down rolls every migration back
func (m *Migrator) Down() error {
	return m.run("down", m.migrate.Down)
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	return m.run(fmt.Sprintf("step %d", n), func() error { return m.migrate.Steps(n) })
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.run(fmt.Sprintf("goto %d", version), func() error { return m.migrate.Migrate(version) })
}

// Version returns the applied version, 0 when the schema is empty
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

// Status lists the migrations in the directory with whether each is applied
func (m *Migrator) Status() ([]StatusEntry, error) {
	files, err := ListMigrations(m.path)
	if err != nil {
		return nil, err
	}
	current, dirty, err := m.Version()
	if err != nil {
		return nil, err
	}

	out := make([]StatusEntry, 0, len(files))
	for _, f := range files {
		entry := StatusEntry{Migration: f, Applied: f.Version <= current}
		entry.Dirty = dirty && f.Version == current
		out = append(out, entry)
	}
	return out, nil
}

// StatusEntry is one row of Status
type StatusEntry struct {
	Migration
	Applied bool
	Dirty   bool
}

// Force records version as applied without running it. Only for
// clearing a dirty flag after a failed migration was fixed by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}
