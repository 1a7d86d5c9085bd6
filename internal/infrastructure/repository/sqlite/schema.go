package sqlite

import (
	"database/sql"
	"embed"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// applySchema brings the table layout up to date on its own connection, so
// closing the migrator does not close the store's pool.
func applySchema(dsn string) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return errors.Wrap(err, "open sqlite for schema migration")
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "load embedded migrations")
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = src.Close()
		_ = db.Close()
		return errors.Wrap(err, "create sqlite migrate driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		_ = db.Close()
		return errors.Wrap(err, "create schema migrator")
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply schema migrations")
	}
	return nil
}

func closeMigrator(m *migrate.Migrate) {
	_, _ = m.Close()
}
