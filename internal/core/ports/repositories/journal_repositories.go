package repositories

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// JournalEntryReader defines read operations for posted journal entries.
// Committed entries are immutable, so reads need no coordination with
// writers beyond standard transaction isolation.
type JournalEntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines for one entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindEntriesByReference retrieves all entries posted against a reference
	// (an invoice, payment or transfer group), oldest first.
	FindEntriesByReference(ctx context.Context, tenantID, referenceID string) ([]domain.JournalEntry, error)

	// ListEntries retrieves a page of entries for a tenant ordered by entry
	// number descending, using token-based pagination.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter is deliberately append-only: entries and lines can be
// inserted and an entry can be stamped as reversed exactly once. No update
// or delete method exists, making immutability a property of the boundary
// rather than a convention.
type JournalEntryWriter interface {
	// SaveEntry atomically allocates the tenant's next entry number and
	// persists the header with its lines. Partial writes are never observable.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// SaveEntryPair persists two entries in one atomic unit, used for
	// inter-fund transfers (one balanced entry per fund, linked by reference).
	SaveEntryPair(ctx context.Context, first, second domain.JournalEntry) (*domain.JournalEntry, *domain.JournalEntry, error)

	// SaveReversal persists the reversing entry and stamps the original's
	// reversed_by linkage in one atomic unit. Returns ErrAlreadyReversed if
	// the original was already stamped.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines the journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
