package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_service/internal/models"
	"github.com/SscSPs/ledger_posting_service/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `code, name, account_type, sub_type, is_active, opening_balance,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.SubType,
		&m.IsActive,
		&m.OpeningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO chart_of_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.Code,
		m.Name,
		m.AccountType,
		m.SubType,
		m.IsActive,
		m.OpeningBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError("account "+m.Code, err, apperrors.ErrDuplicate, nil)
	}
	return nil
}

// FindAccountByCode retrieves an account by its exact code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts WHERE code = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + code)
		}
		return nil, storageError("failed to find account "+code, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves a page of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts ORDER BY code LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, storageError("failed to list accounts", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storageError("failed to scan account row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// DeleteAccount removes an account. The RESTRICT foreign key on journal_items refuses referenced accounts.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM chart_of_accounts WHERE code = $1;`, code)
	if err != nil {
		return mapWriteError("account "+code, err, nil, apperrors.ErrAccountInUse)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + code)
	}
	return nil
}

// SumPostedItems totals debits and credits of items on POSTED entries for the account.
func (r *PgxAccountRepository) SumPostedItems(ctx context.Context, code string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(i.debit), 0), COALESCE(SUM(i.credit), 0)
		FROM journal_items i
		JOIN journal_entries e ON e.entry_id = i.entry_id
		WHERE i.account_code = $1 AND e.status = 'POSTED';
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, code).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, storageError("failed to sum items for account "+code, err)
	}
	return debit, credit, nil
}
