package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database row shape for journal entry headers. Rows are
// insert-only; the single permitted update is the guarded reversed_by stamp.
type JournalEntry struct {
	EntryID           string    `db:"entry_id"`
	TenantID          string    `db:"tenant_id"`
	EntryNumber       int64     `db:"entry_number"`
	EntryDate         time.Time `db:"entry_date"`
	EntryType         string    `db:"entry_type"`
	Description       string    `db:"description"`
	ReferenceID       *string   `db:"reference_id"`
	ReversesEntryID   *string   `db:"reverses_entry_id"`
	ReversedByEntryID *string   `db:"reversed_by_entry_id"`
	PostedAt          time.Time `db:"posted_at"`
	PostedBy          string    `db:"posted_by"`
}

// JournalLine is the database row shape for journal entry lines.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
}
