package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_service/internal/models"
	"github.com/SscSPs/ledger_posting_service/internal/utils/mapping"
	"github.com/SscSPs/ledger_posting_service/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_date, reference, description, status, source_type, source_ref,
		created_at, created_by, last_updated_at, last_updated_by`

type SQLiteJournalRepository struct {
	BaseRepository
}

func newSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.JournalRepositoryWithTx = (*SQLiteJournalRepository)(nil)

// WithTx runs fn inside a single database transaction. A panic in fn rolls back and re-panics.
func (r *SQLiteJournalRepository) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(tx)
			panic(p)
		}
	}()

	if err := fn(ctx, &sqliteJournalTx{db: tx}); err != nil {
		if rbErr := r.Rollback(tx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return r.Commit(tx)
}

func (r *SQLiteJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = ?;`
	m, err := scanEntry(r.DB.QueryRowContext(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return nil, storageError("failed to find journal entry "+entryID, err)
	}
	items, err := findItems(ctx, r.DB, entryID)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m)
	entry.Items = items
	return &entry, nil
}

func (r *SQLiteJournalRepository) FindEntriesByReferencePrefix(ctx context.Context, prefix string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reference LIKE ? ESCAPE '\'`
	args := []any{pagination.LikePrefix(prefix)}
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr))
		}
		query += ` AND (entry_date, created_at, entry_id) < (?, ?, ?)`
		args = append(args, cursor.EntryDate.UTC(), cursor.CreatedAt.UTC(), cursor.EntryID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT ?;`
	args = append(args, fetchLimit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, storageError("failed to query journal entries by reference prefix", err)
	}
	defer rows.Close()

	ms := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, storageError("failed to scan journal entry row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storageError("error iterating journal entry rows", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		nextTokenVal = &token
		ms = ms[:limit]
	}

	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

type sqliteJournalTx struct {
	db dbtx
}

var _ portsrepo.JournalTxRepository = (*sqliteJournalTx)(nil)

func (t *sqliteJournalTx) CreateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `INSERT INTO journal_entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := t.db.ExecContext(ctx, query,
		m.EntryID,
		m.EntryDate.UTC(),
		m.Reference,
		m.Description,
		string(m.Status),
		m.SourceType,
		m.SourceRef,
		m.CreatedAt.UTC(),
		m.CreatedBy,
		m.LastUpdatedAt.UTC(),
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError("reference "+m.Reference, err, apperrors.ErrDuplicateReference, nil)
	}
	return nil
}

func (t *sqliteJournalTx) AddItems(ctx context.Context, items []domain.JournalItem) error {
	query := `
		INSERT INTO journal_items (item_id, entry_id, line_no, account_code, debit, credit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	for _, item := range items {
		m := mapping.ToModelJournalItem(item)
		_, err := t.db.ExecContext(ctx, query, m.ItemID, m.EntryID, m.LineNo, m.AccountCode, m.Debit, m.Credit, m.CreatedAt.UTC())
		if err != nil {
			return mapWriteError(fmt.Sprintf("journal item %d on account %s", m.LineNo, m.AccountCode), err, nil, apperrors.ErrRequiredAccountNotFound)
		}
	}
	return nil
}

func (t *sqliteJournalTx) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	return findItems(ctx, t.db, entryID)
}

func (t *sqliteJournalTx) UpdateEntryStatus(ctx context.Context, entryID string, status domain.JournalStatus, updatedBy string, updatedAt time.Time) error {
	query := `UPDATE journal_entries SET status = ?, last_updated_by = ?, last_updated_at = ? WHERE entry_id = ?;`
	res, err := t.db.ExecContext(ctx, query, string(status), updatedBy, updatedAt.UTC(), entryID)
	if err != nil {
		return storageError("failed to update status of journal entry "+entryID, err)
	}
	updated, err := rowsAffected(res)
	if err != nil {
		return storageError("failed to update status of journal entry "+entryID, err)
	}
	if !updated {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

func (t *sqliteJournalTx) FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reference = ?;`
	m, err := scanEntry(t.db.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry with reference " + reference)
		}
		return nil, storageError("failed to find journal entry by reference "+reference, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

func (t *sqliteJournalTx) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE entry_id = ?;`, entryID)
	if err != nil {
		return storageError("failed to delete journal entry "+entryID, err)
	}
	deleted, err := rowsAffected(res)
	if err != nil {
		return storageError("failed to delete journal entry "+entryID, err)
	}
	if !deleted {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

func scanEntry(row rowScanner) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.Status,
		&m.SourceType,
		&m.SourceRef,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findItems(ctx context.Context, db dbtx, entryID string) ([]domain.JournalItem, error) {
	query := `
		SELECT item_id, entry_id, line_no, account_code, debit, credit, created_at
		FROM journal_items
		WHERE entry_id = ?
		ORDER BY line_no;
	`
	rows, err := db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, storageError("failed to query items for journal entry "+entryID, err)
	}
	defer rows.Close()

	items := []models.JournalItem{}
	for rows.Next() {
		var m models.JournalItem
		if err := rows.Scan(&m.ItemID, &m.EntryID, &m.LineNo, &m.AccountCode, &m.Debit, &m.Credit, &m.CreatedAt); err != nil {
			return nil, storageError("failed to scan item row for journal entry "+entryID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating item rows for journal entry "+entryID, err)
	}
	return mapping.ToDomainJournalItemSlice(items), nil
}
