package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// EventType identifies the kind of business event a journal entry was posted for.
type EventType string

const (
	EventInvoice EventType = "INVOICE"
	EventBill    EventType = "BILL"
	EventPOSSale EventType = "POS_SALE"
	EventManual  EventType = "MANUAL"
)

// JournalEntry represents a single ledger transaction composed of line items.
// SourceType and SourceRef correlate the entry with the business document that produced it.
type JournalEntry struct {
	EntryID     string        `json:"entryID"`
	EntryDate   time.Time     `json:"date"`
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	Status      JournalStatus `json:"status"`
	SourceType  EventType     `json:"sourceType"`
	SourceRef   string        `json:"sourceRef"`
	Items       []JournalItem `json:"items,omitempty"`
	AuditFields
}

// Totals returns the summed debit and credit sides of the entry's items.
func (e JournalEntry) Totals() (decimal.Decimal, decimal.Decimal) {
	return SumItems(e.Items)
}

// IsBalanced reports whether debits equal credits exactly.
func (e JournalEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return debit.Equal(credit)
}

// SumItems totals the debit and credit columns of items.
func SumItems(items []JournalItem) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, item := range items {
		debit = debit.Add(item.Debit)
		credit = credit.Add(item.Credit)
	}
	return debit, credit
}
