package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_service/internal/core/services"
	"github.com/SscSPs/ledger_posting_service/internal/handlers"
	"github.com/SscSPs/ledger_posting_service/internal/platform/config"
	"github.com/SscSPs/ledger_posting_service/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_posting_service/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_posting_service/migrations"
	"github.com/SscSPs/ledger_posting_service/pkg/database"
)

// @title Ledger Posting Service API
// @version 1.0
// @description Posts invoices, bills, POS sales and manual journals as balanced double-entry journal entries.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	container := services.NewServiceContainer(cfg, repos, logger)

	r, err := handlers.NewRouter(cfg, container, logger)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("db_driver", cfg.DBDriver))
	return r.Run(":" + cfg.Port)
}

// openStore migrates the configured backend and returns its repositories along with a close func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		logger.Info("Running database migrations...", slog.String("path", cfg.SQLitePath))
		if err := database.MigrateSQLite(migrations.FS, "sqlite", cfg.SQLitePath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		closeDB := func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("Error closing sqlite database", slog.String("error", cerr.Error()))
			}
		}
		return sqlite.NewRepositoryProvider(db), closeDB, nil

	default:
		logger.Info("Running database migrations...")
		if err := database.MigratePostgres(migrations.FS, "postgres", cfg.DatabaseURL, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}
