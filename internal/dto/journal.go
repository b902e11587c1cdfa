package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalItemResponse defines the data returned for a journal line.
type JournalItemResponse struct {
	ItemID      string          `json:"itemID"`
	LineNo      int             `json:"lineNo"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string                `json:"id"`
	Date        time.Time             `json:"date"`
	Reference   string                `json:"reference"`
	Description string                `json:"description"`
	Status      domain.JournalStatus  `json:"status"`
	SourceType  domain.EventType      `json:"sourceType"`
	SourceRef   string                `json:"sourceRef"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
	Items       []JournalItemResponse `json:"items,omitempty"`
}

// ListEntriesParams defines query parameters for listing entries by reference prefix.
type ListEntriesParams struct {
	ReferencePrefix string  `form:"referencePrefix" binding:"max=64"`
	Limit           int     `form:"limit,default=20" binding:"min=0,max=100"`
	NextToken       *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ReverseEntryParams identifies the entry to reverse by reference.
type ReverseEntryParams struct {
	Reference string `form:"reference" binding:"required,max=64"`
}

// ToJournalItemResponses converts items to their response form.
func ToJournalItemResponses(items []domain.JournalItem) []JournalItemResponse {
	if len(items) == 0 {
		return nil
	}
	res := make([]JournalItemResponse, len(items))
	for i, item := range items {
		res[i] = JournalItemResponse{
			ItemID:      item.ItemID,
			LineNo:      item.LineNo,
			AccountCode: item.AccountCode,
			Debit:       item.Debit,
			Credit:      item.Credit,
		}
	}
	return res
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:     e.EntryID,
		Date:        e.EntryDate,
		Reference:   e.Reference,
		Description: e.Description,
		Status:      e.Status,
		SourceType:  e.SourceType,
		SourceRef:   e.SourceRef,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
		Items:       ToJournalItemResponses(e.Items),
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
