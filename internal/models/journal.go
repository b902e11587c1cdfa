package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus mirrors the status column of journal_entries.
type JournalStatus string

// JournalEntry is the row stored in the journal_entries table.
type JournalEntry struct {
	EntryID     string        `db:"entry_id"`
	EntryDate   time.Time     `db:"entry_date"`
	Reference   string        `db:"reference"`
	Description string        `db:"description"`
	Status      JournalStatus `db:"status"`
	SourceType  string        `db:"source_type"`
	SourceRef   string        `db:"source_ref"`
	AuditFields
}

// JournalItem is the row stored in the journal_items table.
// Exactly one of Debit and Credit is non-zero.
type JournalItem struct {
	ItemID      string          `db:"item_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	CreatedAt   time.Time       `db:"created_at"`
}
