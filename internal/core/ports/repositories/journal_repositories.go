package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

// JournalReader defines read operations for journal data outside a write transaction
type JournalReader interface {
	// FindEntryByID retrieves an entry together with its ordered items.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByReferencePrefix lists entries whose reference starts with prefix, newest first,
	// using token-based pagination. Items are not loaded.
	FindEntriesByReferencePrefix(ctx context.Context, prefix string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalTxRepository is the write surface available only inside TransactionManager.WithTx.
type JournalTxRepository interface {
	// CreateEntry inserts the entry header. A duplicate reference yields apperrors.ErrDuplicateReference.
	CreateEntry(ctx context.Context, entry domain.JournalEntry) error

	// AddItems inserts the entry's line items. An unknown account code yields apperrors.ErrRequiredAccountNotFound.
	AddItems(ctx context.Context, items []domain.JournalItem) error

	// FindItemsByEntryID reads back the items as the store sees them, ordered by line number.
	FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error)

	// UpdateEntryStatus changes the status of an entry.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.JournalStatus, updatedBy string, updatedAt time.Time) error

	// FindEntryByReference looks up an entry by exact reference. Returns apperrors.ErrNotFound when absent.
	FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry and, by cascade, its items. Returns apperrors.ErrNotFound when no row was deleted.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryWithTx combines reads with the transactional write surface
type JournalRepositoryWithTx interface {
	JournalReader
	TransactionManager
}
