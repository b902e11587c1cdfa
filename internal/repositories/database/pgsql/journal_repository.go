package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_service/internal/models"
	"github.com/SscSPs/ledger_posting_service/internal/utils/mapping"
	"github.com/SscSPs/ledger_posting_service/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_date, reference, description, status, source_type, source_ref,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their items.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// WithTx runs fn inside a single database transaction. A panic in fn rolls back and re-panics.
func (r *PgxJournalRepository) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(ctx, &pgxJournalTx{db: tx}); err != nil {
		// The original error matters more than a failed rollback.
		_ = r.Rollback(ctx, tx)
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry together with its ordered items.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return nil, storageError("failed to find journal entry "+entryID, err)
	}
	items, err := findItems(ctx, r.Pool, entryID)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m)
	entry.Items = items
	return &entry, nil
}

// FindEntriesByReferencePrefix lists entries whose reference starts with prefix using token-based pagination.
func (r *PgxJournalRepository) FindEntriesByReferencePrefix(ctx context.Context, prefix string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reference LIKE $1 ESCAPE '\'`
	// Ordering must be stable; entry_id breaks ties between entries created in the same instant.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC, entry_id DESC`
	args := []any{pagination.LikePrefix(prefix)}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr))
		}
		// Tuple comparison is concise and efficient in Postgres
		query += ` AND (entry_date, created_at, entry_id) < ($2, $3, $4)`
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
	}
	args = append(args, fetchLimit)
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
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
		// The token points to the last item included in this page.
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

// pgxJournalTx is the write surface handed to TxFunc; every statement runs on the same pgx.Tx.
type pgxJournalTx struct {
	db dbtx
}

var _ portsrepo.JournalTxRepository = (*pgxJournalTx)(nil)

func (t *pgxJournalTx) CreateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := t.db.Exec(ctx, query,
		m.EntryID,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.Status,
		m.SourceType,
		m.SourceRef,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError("reference "+m.Reference, err, apperrors.ErrDuplicateReference, nil)
	}
	return nil
}

func (t *pgxJournalTx) AddItems(ctx context.Context, items []domain.JournalItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_items (item_id, entry_id, line_no, account_code, debit, credit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		m := mapping.ToModelJournalItem(item)
		batch.Queue(query, m.ItemID, m.EntryID, m.LineNo, m.AccountCode, m.Debit, m.Credit, m.CreatedAt)
	}

	br := t.db.SendBatch(ctx, batch)
	// Close reports the first failing statement of the batch.
	if err := br.Close(); err != nil {
		return mapWriteError("journal items for entry "+items[0].EntryID, err, nil, apperrors.ErrRequiredAccountNotFound)
	}
	return nil
}

func (t *pgxJournalTx) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	return findItems(ctx, t.db, entryID)
}

func (t *pgxJournalTx) UpdateEntryStatus(ctx context.Context, entryID string, status domain.JournalStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE entry_id = $1;
	`
	tag, err := t.db.Exec(ctx, query, entryID, models.JournalStatus(status), updatedBy, updatedAt)
	if err != nil {
		return storageError("failed to update status of journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

// FindEntryByReference locks the row so concurrent reversals of one reference serialize.
func (t *pgxJournalTx) FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE reference = $1 FOR UPDATE;`
	m, err := scanEntry(t.db.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry with reference " + reference)
		}
		return nil, storageError("failed to find journal entry by reference "+reference, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

func (t *pgxJournalTx) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := t.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return storageError("failed to delete journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
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
		WHERE entry_id = $1
		ORDER BY line_no;
	`
	rows, err := db.Query(ctx, query, entryID)
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
