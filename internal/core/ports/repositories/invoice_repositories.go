package repositories

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of invoices for a tenant, optionally
	// filtered to one owner and/or open invoices only, ordered by invoice
	// number descending with token pagination.
	ListInvoices(ctx context.Context, tenantID string, ownerID *string, openOnly bool, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListOverdueInvoices retrieves open invoices past due as of a date that
	// have not yet had a late fee applied. Used by the late-fee run.
	ListOverdueInvoices(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data. Each method is a
// single atomic unit covering the invoice mutation and its journal posting.
type InvoiceWriter interface {
	// SaveInvoiceWithEntry atomically allocates the tenant's next invoice and
	// entry numbers and persists the invoice, its lines, and the issuance
	// journal entry.
	SaveInvoiceWithEntry(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry) (*domain.Invoice, *domain.JournalEntry, error)

	// VoidInvoice atomically posts the given reversing entries, stamps the
	// reversed originals, and flags the invoice void. The guard on
	// amount_paid = 0 is re-checked under lock.
	VoidInvoice(ctx context.Context, tenantID, invoiceID string, reversals []domain.JournalEntry, actor string, now time.Time) error

	// SaveLateFee atomically appends the fee line, bumps the invoice total,
	// records the late-fee entry marker, and posts the supplemental entry.
	// The marker guard (late_fee_entry_id IS NULL) is enforced under lock so
	// a second application in the same cycle is a no-op conflict.
	SaveLateFee(ctx context.Context, tenantID, invoiceID string, feeLine domain.InvoiceLine, entry domain.JournalEntry, actor string, now time.Time) (*domain.JournalEntry, error)
}

// InvoiceRepositoryFacade combines the invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
