package dto

import (
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one proposed debit or credit line. Exactly one of
// Debit/Credit must be positive; the service rejects anything else.
type EntryLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// PostEntryRequest proposes a manual journal entry.
type PostEntryRequest struct {
	EntryDate   time.Time          `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Description string             `json:"description" binding:"required"`
	ReferenceID *string            `json:"referenceID,omitempty"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// TransferRequest moves money between two funds. Each side names the cash
// account and its offset within one fund; the engine posts two linked
// entries, one per fund, each individually balanced.
type TransferRequest struct {
	TransferDate        time.Time       `json:"transferDate" binding:"required" time_format:"2006-01-02"`
	Description         string          `json:"description" binding:"required"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	FromAccountID       string          `json:"fromAccountID" binding:"required"`       // credited (cash leaving the source fund)
	FromOffsetAccountID string          `json:"fromOffsetAccountID" binding:"required"` // debited, same fund as FromAccountID
	ToAccountID         string          `json:"toAccountID" binding:"required"`         // debited (cash entering the target fund)
	ToOffsetAccountID   string          `json:"toOffsetAccountID" binding:"required"`   // credited, same fund as ToAccountID
}

// JournalLineResponse is the API shape of a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is the API shape of a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       int64                 `json:"entryNumber"`
	EntryDate         time.Time             `json:"entryDate"`
	EntryType         string                `json:"entryType"`
	Description       string                `json:"description"`
	ReferenceID       *string               `json:"referenceID,omitempty"`
	ReversesEntryID   *string               `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	PostedAt          time.Time             `json:"postedAt"`
	PostedBy          string                `json:"postedBy"`
	Lines             []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain entry to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:           e.EntryID,
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
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
		})
	}
	return resp
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
