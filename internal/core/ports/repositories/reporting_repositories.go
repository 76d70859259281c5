package repositories

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the read-only aggregations behind the derived
// views. They hold no independent invariants and recompute on demand.
type ReportingRepository interface {
	// GetTrialBalanceRows sums journal line debits and credits grouped by
	// account up to asOf, optionally scoped to one fund. Balances are signed
	// by the service per each account's normal balance.
	GetTrialBalanceRows(ctx context.Context, tenantID string, fundID *string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// ListOpenInvoicesAsOf retrieves all non-void invoices issued on or
	// before asOf that still carried a balance on that date, for AR aging
	// and the tie-out check. amount_paid and total_amount are reconstructed
	// as of asOf, so the invoices stay on the same date basis as the journal
	// aggregates they reconcile against.
	ListOpenInvoicesAsOf(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error)

	// GetAccountBalance computes one account's ledger balance as of a date,
	// signed per its normal balance.
	GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error)

	// ListOwnerInvoiceActivity retrieves all of an owner's invoices oldest
	// first, each paired with its late-fee amount and assessment date, for
	// the owner ledger view.
	ListOwnerInvoiceActivity(ctx context.Context, tenantID, ownerID string) ([]domain.OwnerInvoiceActivity, error)
}
