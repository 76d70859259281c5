package services

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// InvoiceSvcFacade defines the invoice ledger operations. Invoice generation
// jobs (assessments, violation fines, work orders, ARC fees) all call
// IssueInvoice; none of them construct journal entries directly.
type InvoiceSvcFacade interface {
	// IssueInvoice totals the lines and atomically posts the receivable
	// entry (debit AR, credit revenue per line) together with the invoice.
	IssueInvoice(ctx context.Context, tenantID string, req dto.IssueInvoiceRequest, actor string) (*domain.Invoice, error)

	// ValidateInvoice performs all issuance validation without committing.
	// Used by dry-run batch generation.
	ValidateInvoice(ctx context.Context, tenantID string, req dto.IssueInvoiceRequest) error

	// VoidInvoice reverses the invoice's entries and flags it void. Only
	// permitted while amount_paid is zero.
	VoidInvoice(ctx context.Context, tenantID, invoiceID, reason, actor string) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ApplyLateFee applies the tenant's late-fee policy to one invoice.
	// Idempotent per overdue cycle; inside the grace window it reports a
	// no-op result rather than an error.
	ApplyLateFee(ctx context.Context, tenantID, invoiceID string, asOf time.Time, actor string) (*dto.LateFeeResult, error)

	// RunLateFees applies the policy across all overdue invoices, reporting
	// per-invoice outcomes. With dryRun it validates and computes without
	// committing anything.
	RunLateFees(ctx context.Context, tenantID string, asOf time.Time, dryRun bool, actor string) (*dto.LateFeeRunSummary, error)
}
