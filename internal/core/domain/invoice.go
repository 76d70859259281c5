package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is a view over an invoice's amounts and due date, never
// independently stored truth.
type InvoiceStatus string

const (
	InvoiceIssued  InvoiceStatus = "ISSUED"
	InvoicePartial InvoiceStatus = "PARTIAL"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
	InvoiceVoid    InvoiceStatus = "VOID"
)

// Invoice is a receivable record. Once issued it is only ever changed by
// payment applications, a late-fee line, or a void (which posts reversing
// entries and sets the void flag).
type Invoice struct {
	InvoiceID     string    `json:"invoiceID"`
	TenantID      string    `json:"tenantID"`
	InvoiceNumber int64     `json:"invoiceNumber"` // per-tenant, gapless, monotonic
	OwnerID       string    `json:"ownerID"`
	UnitID        string    `json:"unitID"`
	InvoiceDate   time.Time `json:"invoiceDate"` // calendar date
	DueDate       time.Time `json:"dueDate"`     // calendar date

	TotalAmount decimal.Decimal `json:"totalAmount"` // sum of lines (incl. late fee)
	AmountPaid  decimal.Decimal `json:"amountPaid"`  // sum of applied payment applications

	// EntryID references the issuance journal entry. LateFeeEntryID is the
	// idempotence marker for the overdue cycle's late fee.
	EntryID        string  `json:"entryID"`
	LateFeeEntryID *string `json:"lateFeeEntryID,omitempty"`

	IsVoid bool `json:"isVoid"`

	Lines []InvoiceLine `json:"lines,omitempty"`
	AuditFields
}

// AmountDue is derived, never stored: total minus applied payments.
func (i Invoice) AmountDue() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// Open reports whether the invoice still carries a receivable balance.
func (i Invoice) Open() bool {
	return !i.IsVoid && i.AmountDue().IsPositive()
}

// Status computes the invoice status as of a calendar date.
func (i Invoice) Status(asOf time.Time) InvoiceStatus {
	switch {
	case i.IsVoid:
		return InvoiceVoid
	case !i.AmountDue().IsPositive():
		return InvoicePaid
	case asOf.After(i.DueDate):
		return InvoiceOverdue
	case i.AmountPaid.IsPositive():
		return InvoicePartial
	default:
		return InvoiceIssued
	}
}

// InvoiceLine is a single billed item tagged with the revenue account it
// settles into.
type InvoiceLine struct {
	LineID           string          `json:"lineID"`
	InvoiceID        string          `json:"invoiceID"`
	RevenueAccountID string          `json:"revenueAccountID"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	IsLateFee        bool            `json:"isLateFee"`
}
