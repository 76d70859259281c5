package services

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// JournalSvcFacade is the single choke point all money-moving operations
// funnel through. There is no update or delete on posted entries anywhere
// on this interface; corrections go through ReverseEntry.
type JournalSvcFacade interface {
	// PostEntry validates and commits a manual journal entry.
	PostEntry(ctx context.Context, tenantID string, req dto.PostEntryRequest, actor string) (*domain.JournalEntry, error)

	// ReverseEntry posts the exact debit/credit mirror of an entry and links
	// both records. A second reversal fails with ErrAlreadyReversed.
	ReverseEntry(ctx context.Context, tenantID, entryID, reason, actor string) (*domain.JournalEntry, error)

	// TransferFunds posts an inter-fund transfer as two linked entries, one
	// per fund, each individually balanced.
	TransferFunds(ctx context.Context, tenantID string, req dto.TransferRequest, actor string) ([]domain.JournalEntry, error)

	GetEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
