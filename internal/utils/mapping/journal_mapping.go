package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain journal entry header to its row model.
func ToModelJournalEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           e.EntryID,
		TenantID:          e.TenantID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		EntryType:         string(e.EntryType),
		Description:       e.Description,
		ReferenceID:       e.ReferenceID,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
	}
}

// ToDomainJournalEntry converts a journal entry row model to its domain form.
func ToDomainJournalEntry(e models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           e.EntryID,
		TenantID:          e.TenantID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		EntryType:         domain.EntryType(e.EntryType),
		Description:       e.Description,
		ReferenceID:       e.ReferenceID,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
	}
}

// ToModelJournalLine converts a domain journal line to its row model.
func ToModelJournalLine(l domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:    l.LineID,
		EntryID:   l.EntryID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
	}
}

// ToDomainJournalLine converts a journal line row model to its domain form.
func ToDomainJournalLine(l models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    l.LineID,
		EntryID:   l.EntryID,
		AccountID: l.AccountID,
		Debit:     l.Debit,
		Credit:    l.Credit,
	}
}
