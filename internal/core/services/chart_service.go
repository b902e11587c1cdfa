package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/core/posting"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/SscSPs/ledger_posting_service/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// chartService is the chart-of-accounts registry. The posting engine only uses its resolver half.
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	precision   int32
	now         func() time.Time
}

// ChartOption is a functional option for configuring the chart service
type ChartOption func(*chartService)

// WithChartPrecision sets the fractional digits allowed on opening balances.
func WithChartPrecision(places int32) ChartOption {
	return func(s *chartService) {
		s.precision = places
	}
}

// WithChartClock overrides the clock used for audit fields.
func WithChartClock(now func() time.Time) ChartOption {
	return func(s *chartService) {
		s.now = now
	}
}

// NewChartService creates a new chart service with the provided options
func NewChartService(repo portsrepo.AccountRepositoryFacade, options ...ChartOption) portssvc.ChartSvcFacade {
	svc := &chartService{
		accountRepo: repo,
		precision:   posting.DefaultPrecision,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) Resolve(ctx context.Context, code string) (*domain.Account, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty account code", apperrors.ErrRequiredAccountNotFound)
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrRequiredAccountNotFound, code)
		}
		s.LogError(ctx, err, "Failed to resolve account", slog.String("account_code", code))
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountInactive, code)
	}
	return account, nil
}

func (s *chartService) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code in repository", slog.String("account_code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *chartService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.Int("limit", limit), slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *chartService) GetAccountBalance(ctx context.Context, code string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	debit, credit, err := s.accountRepo.SumPostedItems(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted items", slog.String("account_code", code))
		return decimal.Zero, err
	}
	return accounting.AccountBalance(*account, debit, credit)
}

func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if err := accounting.CheckPrecision("openingBalance", req.OpeningBalance, s.precision); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.now().UTC()
	actor := s.ActorID(ctx)
	account := domain.Account{
		Code:           code,
		Name:           strings.TrimSpace(req.Name),
		AccountType:    req.AccountType,
		SubType:        req.SubType,
		IsActive:       isActive,
		OpeningBalance: req.OpeningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_code", code))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_code", code), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *chartService) DeleteAccount(ctx context.Context, code string) error {
	if err := s.accountRepo.DeleteAccount(ctx, code); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAccountInUse) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_code", code))
		}
		return err
	}
	s.GetLogger(ctx).Info("Account deleted", slog.String("account_code", code))
	return nil
}
