package repositories

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
)

// AllocatorFunc is the pure allocation step invoked by the repository inside
// its locking transaction: it receives the owner's open invoices as locked
// and returns the applications to write plus the unapplied remainder. Keeping
// the algorithm pure and injecting it here keeps it unit-testable without a
// database while the repository owns the lock-read-write cycle.
type AllocatorFunc func(open []domain.Invoice) ([]allocation.Allocation, decimal.Decimal, error)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its unique identifier.
	FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of payments for a tenant, optionally
	// filtered to one owner, ordered by payment number descending.
	ListPayments(ctx context.Context, tenantID string, ownerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// FindApplicationByID retrieves a payment application.
	FindApplicationByID(ctx context.Context, tenantID, applicationID string) (*domain.PaymentApplication, error)

	// ListApplicationsByPayment retrieves all applications for a payment.
	ListApplicationsByPayment(ctx context.Context, tenantID, paymentID string) ([]domain.PaymentApplication, error)

	// ListPaymentsByOwner retrieves all payments for one owner, oldest first.
	// Used by the owner ledger view.
	ListPaymentsByOwner(ctx context.Context, tenantID, ownerID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payment data.
type PaymentWriter interface {
	// SavePaymentWithApplications runs the full receipt in one transaction:
	// allocate the tenant's next payment and entry numbers, insert the
	// payment and its cash journal entry, lock the owner's open invoices in
	// FIFO order, run the allocator, and write the applications together
	// with the invoice amount_paid and payment amount_applied updates. Lock
	// and serialization conflicts surface as ErrConcurrentModification.
	SavePaymentWithApplications(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, allocate AllocatorFunc) (*domain.Payment, []domain.PaymentApplication, error)

	// ReverseApplication marks one application reversed and restores the
	// invoice amount_due and payment amount_unapplied under lock. The cash
	// journal entry is untouched: the cash was genuinely received.
	ReverseApplication(ctx context.Context, tenantID, applicationID, actor string, now time.Time) (*domain.PaymentApplication, error)
}

// PaymentRepositoryFacade combines the payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
