package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the database row shape for payments.
type Payment struct {
	PaymentID     string          `db:"payment_id"`
	TenantID      string          `db:"tenant_id"`
	PaymentNumber int64           `db:"payment_number"`
	OwnerID       string          `db:"owner_id"`
	PaymentDate   time.Time       `db:"payment_date"`
	Method        string          `db:"method"`
	Reference     string          `db:"reference"`
	Amount        decimal.Decimal `db:"amount"`
	AmountApplied decimal.Decimal `db:"amount_applied"`
	EntryID       string          `db:"entry_id"`
	AuditFields
}

// PaymentApplication is the database row shape for payment applications.
type PaymentApplication struct {
	ApplicationID string          `db:"application_id"`
	TenantID      string          `db:"tenant_id"`
	PaymentID     string          `db:"payment_id"`
	InvoiceID     string          `db:"invoice_id"`
	Amount        decimal.Decimal `db:"amount"`
	AppliedAt     time.Time       `db:"applied_at"`
	AppliedBy     string          `db:"applied_by"`
	ReversedAt    *time.Time      `db:"reversed_at"`
}
