package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the database row shape for invoices. amount_due is never stored;
// it is derived from total_amount - amount_paid on read.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	TenantID       string          `db:"tenant_id"`
	InvoiceNumber  int64           `db:"invoice_number"`
	OwnerID        string          `db:"owner_id"`
	UnitID         string          `db:"unit_id"`
	InvoiceDate    time.Time       `db:"invoice_date"`
	DueDate        time.Time       `db:"due_date"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	AmountPaid     decimal.Decimal `db:"amount_paid"`
	EntryID        string          `db:"entry_id"`
	LateFeeEntryID *string         `db:"late_fee_entry_id"`
	IsVoid         bool            `db:"is_void"`
	AuditFields
}

// InvoiceLine is the database row shape for invoice line items.
type InvoiceLine struct {
	LineID           string          `db:"line_id"`
	InvoiceID        string          `db:"invoice_id"`
	RevenueAccountID string          `db:"revenue_account_id"`
	Description      string          `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	IsLateFee        bool            `db:"is_late_fee"`
}
