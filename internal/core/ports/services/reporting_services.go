package services

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// ReportingSvcFacade defines the derived, read-only views. Consumers of
// these reports are never given a path to mutate journal lines.
type ReportingSvcFacade interface {
	// TrialBalance aggregates account balances up to asOf, optionally scoped
	// to one fund. Tenant-wide, total debits must equal total credits.
	TrialBalance(ctx context.Context, tenantID string, fundID *string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ARAging buckets open invoice balances by days overdue per owner.
	ARAging(ctx context.Context, tenantID string, asOf time.Time) (*domain.ARAgingReport, error)

	// OwnerLedger merges one owner's invoices and payments chronologically
	// with a running balance. Recomputed on read, never cached.
	OwnerLedger(ctx context.Context, tenantID, ownerID string) (*domain.OwnerLedger, error)

	// ReconcileAR is the tie-out: open invoice totals against the AR control
	// account balance. The variance must be zero.
	ReconcileAR(ctx context.Context, tenantID string, asOf time.Time) (*domain.ARReconciliation, error)
}
