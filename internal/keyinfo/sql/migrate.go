package sql

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for golang-migrate

	"github.com/parsec-io/parsec-core/internal/keyinfo/sql/migrations"
)

// runPostgresMigrations applies the key-info schema to the Postgres
// database addressed by dsn through golang-migrate, rather than gorm's
// AutoMigrate, so the schema is versioned and reviewable as plain SQL.
func runPostgresMigrations(dsn string) error {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("keyinfo/sql: open migration connection: %w", err)
	}
	defer conn.Close()

	driver, err := pgmigrate.WithInstance(conn, &pgmigrate.Config{MigrationsTable: "key_info_schema_migrations"})
	if err != nil {
		return fmt.Errorf("keyinfo/sql: create postgres migration driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("keyinfo/sql: open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("keyinfo/sql: create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("keyinfo/sql: apply migrations: %w", err)
	}
	return nil
}
