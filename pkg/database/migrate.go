package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// MigratePostgres applies the migrations under dir of fsys to the database at databaseURL.
func MigratePostgres(fsys fs.FS, dir, databaseURL string, logger *slog.Logger) error {
	// Open a temporary standard sql.DB connection for migrations
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations(fsys, dir, "postgres", driver, logger)
}

// MigrateSQLite applies the migrations under dir of fsys to the SQLite database at path.
func MigrateSQLite(fsys fs.FS, dir, path string, logger *slog.Logger) error {
	// The sqlite3 driver closes db when migrate is closed.
	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("could not create sqlite3 driver instance for migrations: %w", err)
	}
	return runMigrations(fsys, dir, "sqlite3", driver, logger)
}

func runMigrations(fsys fs.FS, dir, name string, driver database.Driver, logger *slog.Logger) error {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		driver.Close()
		return fmt.Errorf("could not open migration source %s: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("driver", name))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("driver", name))
	}
	return nil
}
