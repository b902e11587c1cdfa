package mapping

import (
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry. Items are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		EntryDate:   d.EntryDate,
		Reference:   d.Reference,
		Description: d.Description,
		Status:      models.JournalStatus(d.Status),
		SourceType:  string(d.SourceType),
		SourceRef:   d.SourceRef,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryDate:   m.EntryDate,
		Reference:   m.Reference,
		Description: m.Description,
		Status:      domain.JournalStatus(m.Status),
		SourceType:  domain.EventType(m.SourceType),
		SourceRef:   m.SourceRef,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalItem converts a domain JournalItem to a model JournalItem
func ToModelJournalItem(d domain.JournalItem) models.JournalItem {
	return models.JournalItem{
		ItemID:      d.ItemID,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainJournalItem converts a model JournalItem to a domain JournalItem
func ToDomainJournalItem(m models.JournalItem) domain.JournalItem {
	return domain.JournalItem{
		ItemID:      m.ItemID,
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainJournalItemSlice converts a slice of model JournalItems to a slice of domain JournalItems
func ToDomainJournalItemSlice(ms []models.JournalItem) []domain.JournalItem {
	ds := make([]domain.JournalItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalItem(m)
	}
	return ds
}
