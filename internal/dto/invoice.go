package dto

import (
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one billed item tagged with its revenue account.
type InvoiceLineRequest struct {
	RevenueAccountID string          `json:"revenueAccountID" binding:"required"`
	Description      string          `json:"description" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
}

// IssueInvoiceRequest issues a receivable to an owner for a unit.
type IssueInvoiceRequest struct {
	OwnerID     string               `json:"ownerID" binding:"required"`
	UnitID      string               `json:"unitID" binding:"required"`
	InvoiceDate time.Time            `json:"invoiceDate" binding:"required" time_format:"2006-01-02"`
	DueDate     time.Time            `json:"dueDate" binding:"required" time_format:"2006-01-02"`
	Description string               `json:"description"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// VoidInvoiceRequest voids an unpaid invoice.
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvoiceLineResponse is the API shape of an invoice line.
type InvoiceLineResponse struct {
	LineID           string          `json:"lineID"`
	RevenueAccountID string          `json:"revenueAccountID"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	IsLateFee        bool            `json:"isLateFee"`
}

// InvoiceResponse is the API shape of an invoice. Status and amountDue are
// derived fields, computed at response time.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber int64                 `json:"invoiceNumber"`
	OwnerID       string                `json:"ownerID"`
	UnitID        string                `json:"unitID"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	DueDate       time.Time             `json:"dueDate"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	AmountPaid    decimal.Decimal       `json:"amountPaid"`
	AmountDue     decimal.Decimal       `json:"amountDue"`
	Status        string                `json:"status"`
	EntryID       string                `json:"entryID"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// ToInvoiceResponse converts a domain invoice to its API shape as of a date.
func ToInvoiceResponse(inv *domain.Invoice, asOf time.Time) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		OwnerID:       inv.OwnerID,
		UnitID:        inv.UnitID,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		TotalAmount:   inv.TotalAmount,
		AmountPaid:    inv.AmountPaid,
		AmountDue:     inv.AmountDue(),
		Status:        string(inv.Status(asOf)),
		EntryID:       inv.EntryID,
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:           l.LineID,
			RevenueAccountID: l.RevenueAccountID,
			Description:      l.Description,
			Amount:           l.Amount,
			IsLateFee:        l.IsLateFee,
		})
	}
	return resp
}

// ListInvoicesParams holds parameters for listing invoices.
type ListInvoicesParams struct {
	OwnerID   *string `form:"ownerID"`
	OpenOnly  bool    `form:"openOnly"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListInvoicesResponse is a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// LateFeeResult reports the outcome of a late-fee check for one invoice.
type LateFeeResult struct {
	InvoiceID string          `json:"invoiceID"`
	Applied   bool            `json:"applied"`
	Fee       decimal.Decimal `json:"fee"`
	Reason    string          `json:"reason,omitempty"` // e.g. "not yet due", "already applied"
}

// LateFeeRunSummary is the per-row report of a batch late-fee run.
type LateFeeRunSummary struct {
	AsOf    time.Time       `json:"asOf"`
	DryRun  bool            `json:"dryRun"`
	Results []LateFeeResult `json:"results"`
	Applied int             `json:"applied"`
	Skipped int             `json:"skipped"`
	Failed  int             `json:"failed"`
}
