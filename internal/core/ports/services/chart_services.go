package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountResolver translates account codes into active accounts for the posting engine
type AccountResolver interface {
	// Resolve returns the active account with exactly this code, or apperrors.ErrRequiredAccountNotFound.
	Resolve(ctx context.Context, code string) (*domain.Account, error)
}

// ChartReaderSvc defines read operations for chart setup
type ChartReaderSvc interface {
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetAccountBalance returns the opening balance plus signed posted activity.
	GetAccountBalance(ctx context.Context, code string) (decimal.Decimal, error)
}

// ChartWriterSvc defines write operations for chart setup
type ChartWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeleteAccount is refused with apperrors.ErrAccountInUse while journal items reference the account.
	DeleteAccount(ctx context.Context, code string) error
}

// ChartSvcFacade combines all chart-of-accounts service interfaces
type ChartSvcFacade interface {
	AccountResolver
	ChartReaderSvc
	ChartWriterSvc
}
