package repositories

import (
	"context"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByCode retrieves an account by its exact code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account that no journal item references.
	DeleteAccount(ctx context.Context, code string) error
}

// AccountBalanceReader aggregates posted activity for an account
type AccountBalanceReader interface {
	// SumPostedItems returns the debit and credit totals of items on POSTED entries for the account.
	SumPostedItems(ctx context.Context, code string) (decimal.Decimal, decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceReader
}
