package services

import (
	"log/slog"

	"github.com/SscSPs/ledger_posting_service/internal/core/posting"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Audit = NewAuditRecorder(logger)

	// Chart service doubles as the account resolver for posting
	container.Chart = NewChartService(
		repos.AccountRepo,
		WithChartPrecision(cfg.CurrencyPrecision),
	)

	container.Ledger = NewLedgerService(
		repos.JournalRepo,
		container.Chart,
		cfg.RoleMapping(),
		WithAuditRecorder(container.Audit),
		WithRegistry(posting.NewRegistry(cfg.CurrencyPrecision, nil)),
	)

	return container
}

