package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a cash receipt. The cash journal entry is posted at the full
// amount regardless of how the payment is later allocated across invoices;
// allocation is a sub-ledger concern, not a general-ledger concern.
type Payment struct {
	PaymentID     string    `json:"paymentID"`
	TenantID      string    `json:"tenantID"`
	PaymentNumber int64     `json:"paymentNumber"` // per-tenant, gapless, monotonic
	OwnerID       string    `json:"ownerID"`
	PaymentDate   time.Time `json:"paymentDate"` // calendar date
	Method        string    `json:"method"`      // check, ach, card, cash
	Reference     string    `json:"reference"`   // check number, import row id

	Amount        decimal.Decimal `json:"amount"`
	AmountApplied decimal.Decimal `json:"amountApplied"`

	EntryID string `json:"entryID"` // cash journal entry reference
	AuditFields
}

// AmountUnapplied is the standing credit left after allocation.
func (p Payment) AmountUnapplied() decimal.Decimal {
	return p.Amount.Sub(p.AmountApplied)
}

// PaymentApplication joins a payment to an invoice for an applied amount.
// Reversed applications stay on record for audit but no longer count toward
// invoice amount_paid or payment amount_applied.
type PaymentApplication struct {
	ApplicationID string          `json:"applicationID"`
	TenantID      string          `json:"tenantID"`
	PaymentID     string          `json:"paymentID"`
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
	AppliedAt     time.Time       `json:"appliedAt"`
	AppliedBy     string          `json:"appliedBy"`
	ReversedAt    *time.Time      `json:"reversedAt,omitempty"`
}
