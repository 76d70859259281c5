package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType categorizes what produced a journal entry.
type EntryType string

const (
	EntryManual   EntryType = "MANUAL"
	EntryInvoice  EntryType = "INVOICE"
	EntryPayment  EntryType = "PAYMENT"
	EntryLateFee  EntryType = "LATE_FEE"
	EntryTransfer EntryType = "TRANSFER"
	EntryReversal EntryType = "REVERSAL"
)

// JournalEntry is an immutable, balanced set of debit/credit lines. Entries
// are created once via the journal engine's post operation and never updated
// or deleted; corrections happen through reversing entries. The repository
// port exposes no update path beyond the single guarded reversed-by stamp.
type JournalEntry struct {
	EntryID     string    `json:"entryID"`
	TenantID    string    `json:"tenantID"`
	EntryNumber int64     `json:"entryNumber"` // per-tenant, gapless, monotonic
	EntryDate   time.Time `json:"entryDate"`   // calendar date; periods are date-based
	EntryType   EntryType `json:"entryType"`
	Description string    `json:"description"`

	// ReferenceID points at the originating invoice/payment/transfer group.
	ReferenceID *string `json:"referenceID,omitempty"`

	// Reversal linkage. ReversesEntryID is set on the mirroring entry;
	// ReversedByEntryID is stamped once on the original.
	ReversesEntryID   *string `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string `json:"reversedByEntryID,omitempty"`

	PostedAt time.Time `json:"postedAt"`
	PostedBy string    `json:"postedBy"`

	Lines []JournalLine `json:"lines,omitempty"`
}

// Reversed reports whether this entry has been logically reversed.
func (e JournalEntry) Reversed() bool {
	return e.ReversedByEntryID != nil
}

// JournalLine is a single debit or credit against one account. Exactly one
// of Debit/Credit carries a positive value; the other is zero.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// IsDebit reports whether the line carries its value on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Mirror returns the debit/credit mirror of the line, used to build
// reversing entries.
func (l JournalLine) Mirror() JournalLine {
	return JournalLine{
		AccountID: l.AccountID,
		Debit:     l.Credit,
		Credit:    l.Debit,
	}
}
