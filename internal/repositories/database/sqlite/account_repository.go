package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_service/internal/models"
	"github.com/SscSPs/ledger_posting_service/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = `code, name, account_type, sub_type, is_active, opening_balance,
		created_at, created_by, last_updated_at, last_updated_by`

type SQLiteAccountRepository struct {
	BaseRepository
}

func newSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
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

func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO chart_of_accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := r.DB.ExecContext(ctx, query,
		m.Code,
		m.Name,
		string(m.AccountType),
		m.SubType,
		m.IsActive,
		m.OpeningBalance,
		m.CreatedAt.UTC(),
		m.CreatedBy,
		m.LastUpdatedAt.UTC(),
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError("account "+m.Code, err, apperrors.ErrDuplicate, nil)
	}
	return nil
}

func (r *SQLiteAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts WHERE code = ?;`
	m, err := scanAccount(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + code)
		}
		return nil, storageError("failed to find account "+code, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *SQLiteAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts ORDER BY code LIMIT ? OFFSET ?;`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
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

func (r *SQLiteAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chart_of_accounts WHERE code = ?;`, code)
	if err != nil {
		return mapWriteError("account "+code, err, nil, apperrors.ErrAccountInUse)
	}
	deleted, err := rowsAffected(res)
	if err != nil {
		return storageError("failed to delete account "+code, err)
	}
	if !deleted {
		return apperrors.NewNotFoundError("account " + code)
	}
	return nil
}

// SumPostedItems adds amounts in Go: they are stored as TEXT and SQLite would sum them as floats.
func (r *SQLiteAccountRepository) SumPostedItems(ctx context.Context, code string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT i.debit, i.credit
		FROM journal_items i
		JOIN journal_entries e ON e.entry_id = i.entry_id
		WHERE i.account_code = ? AND e.status = 'POSTED';
	`
	rows, err := r.DB.QueryContext(ctx, query, code)
	if err != nil {
		return decimal.Zero, decimal.Zero, storageError("failed to query items for account "+code, err)
	}
	defer rows.Close()

	debit, credit := decimal.Zero, decimal.Zero
	for rows.Next() {
		var d, c decimal.Decimal
		if err := rows.Scan(&d, &c); err != nil {
			return decimal.Zero, decimal.Zero, storageError("failed to scan item amounts for account "+code, err)
		}
		debit = debit.Add(d)
		credit = credit.Add(c)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, decimal.Zero, storageError("error iterating item rows for account "+code, err)
	}
	return debit, credit, nil
}
