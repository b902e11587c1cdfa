package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
)

// LedgerPosterSvc writes business events into the ledger
type LedgerPosterSvc interface {
	// Post selects the strategy for eventType, writes one balanced entry atomically and returns it.
	Post(ctx context.Context, eventType domain.EventType, snapshot any) (*domain.JournalEntry, error)

	// NewSnapshot returns a pointer to an empty snapshot of the type eventType expects.
	NewSnapshot(eventType domain.EventType) (any, error)

	PostInvoice(ctx context.Context, invoice domain.InvoiceSnapshot) (*domain.JournalEntry, error)
	PostBill(ctx context.Context, bill domain.BillSnapshot) (*domain.JournalEntry, error)
	PostPOSSale(ctx context.Context, sale domain.POSSaleSnapshot) (*domain.JournalEntry, error)
	PostManual(ctx context.Context, req domain.ManualJournalRequest) (*domain.JournalEntry, error)
}

// LedgerReverserSvc removes previously posted entries
type LedgerReverserSvc interface {
	// Reverse deletes the entry with exactly this reference. A missing entry is not an error.
	Reverse(ctx context.Context, reference string) error

	// ReverseBySource reverses the entry posted for the given originating document.
	ReverseBySource(ctx context.Context, eventType domain.EventType, documentNumber string) error
}

// LedgerReaderSvc defines read operations on posted entries
type LedgerReaderSvc interface {
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntriesByReferencePrefix(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerPosterSvc
	LedgerReverserSvc
	LedgerReaderSvc
}
