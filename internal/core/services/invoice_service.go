package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/utils/accounting"
)

// invoiceService is the invoice ledger. Every issuance, void, and late fee
// posts through the journal engine's validation path; the repository then
// commits the invoice mutation and the entry as one atomic unit.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewInvoiceService creates a new invoice ledger service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		journalRepo: journalRepo,
		tenantRepo:  tenantRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// controlAccounts fetches the tenant and checks its posting accounts are set.
func (s *invoiceService) controlAccounts(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.ARAccountID == "" || tenant.LateFeeAccountID == "" {
		return nil, fmt.Errorf("%w: tenant control accounts are not configured", apperrors.ErrValidation)
	}
	return tenant, nil
}

// buildInvoice assembles and validates an invoice with its issuance entry:
// one AR debit at the total against one revenue credit per line.
func (s *invoiceService) buildInvoice(ctx context.Context, tenantID string, req dto.IssueInvoiceRequest, actor string) (domain.Invoice, domain.JournalEntry, error) {
	if len(req.Lines) == 0 {
		return domain.Invoice{}, domain.JournalEntry{}, fmt.Errorf("%w: at least one line is required", apperrors.ErrEmptyInvoice)
	}
	invoiceDate := accounting.DateOnly(req.InvoiceDate)
	dueDate := accounting.DateOnly(req.DueDate)
	if dueDate.Before(invoiceDate) {
		return domain.Invoice{}, domain.JournalEntry{}, fmt.Errorf("%w: due date precedes invoice date", apperrors.ErrValidation)
	}

	tenant, err := s.controlAccounts(ctx, tenantID)
	if err != nil {
		return domain.Invoice{}, domain.JournalEntry{}, err
	}

	invoiceID := uuid.NewString()
	total := decimal.Zero
	invLines := make([]domain.InvoiceLine, 0, len(req.Lines))
	entryLines := make([]domain.JournalLine, 0, len(req.Lines)+1)
	for _, lr := range req.Lines {
		if !lr.Amount.IsPositive() {
			return domain.Invoice{}, domain.JournalEntry{}, fmt.Errorf("%w: invoice line %q", apperrors.ErrNonPositiveAmount, lr.Description)
		}
		total = total.Add(lr.Amount)
		invLines = append(invLines, domain.InvoiceLine{
			LineID:           uuid.NewString(),
			InvoiceID:        invoiceID,
			RevenueAccountID: lr.RevenueAccountID,
			Description:      lr.Description,
			Amount:           lr.Amount,
		})
		entryLines = append(entryLines, domain.JournalLine{
			AccountID: lr.RevenueAccountID,
			Debit:     decimal.Zero,
			Credit:    lr.Amount,
		})
	}
	entryLines = append(entryLines, domain.JournalLine{
		AccountID: tenant.ARAccountID,
		Debit:     total,
		Credit:    decimal.Zero,
	})

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Invoice for unit %s", req.UnitID)
	}
	entry, err := prepareEntry(ctx, s.accountSvc, tenantID, invoiceDate, domain.EntryInvoice, &invoiceID, description, entryLines, actor)
	if err != nil {
		return domain.Invoice{}, domain.JournalEntry{}, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:   invoiceID,
		TenantID:    tenantID,
		OwnerID:     req.OwnerID,
		UnitID:      req.UnitID,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
		EntryID:     entry.EntryID,
		Lines:       invLines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	return invoice, entry, nil
}

// IssueInvoice validates the request and atomically persists the invoice with
// its receivable journal entry.
func (s *invoiceService) IssueInvoice(ctx context.Context, tenantID string, req dto.IssueInvoiceRequest, actor string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, entry, err := s.buildInvoice(ctx, tenantID, req, actor)
	if err != nil {
		return nil, err
	}

	saved, _, err := s.invoiceRepo.SaveInvoiceWithEntry(ctx, invoice, entry)
	if err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice issued",
		slog.String("invoice_id", saved.InvoiceID),
		slog.Int64("invoice_number", saved.InvoiceNumber),
		slog.String("owner_id", saved.OwnerID),
		slog.String("total", saved.TotalAmount.String()))
	return saved, nil
}

// ValidateInvoice runs the full issuance validation without committing.
func (s *invoiceService) ValidateInvoice(ctx context.Context, tenantID string, req dto.IssueInvoiceRequest) error {
	_, _, err := s.buildInvoice(ctx, tenantID, req, "validation")
	return err
}

// VoidInvoice reverses the issuance entry (and any late-fee entry) and flags
// the invoice void. Rejected once any payment has been applied; the correct
// path there is unapplying the payments first.
func (s *invoiceService) VoidInvoice(ctx context.Context, tenantID, invoiceID, reason, actor string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsVoid {
		return nil, fmt.Errorf("%w: invoice %d is already void", apperrors.ErrValidation, invoice.InvoiceNumber)
	}
	if invoice.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: invoice %d has %s applied", apperrors.ErrInvoiceAlreadyPaid, invoice.InvoiceNumber, invoice.AmountPaid)
	}

	entryIDs := []string{invoice.EntryID}
	if invoice.LateFeeEntryID != nil {
		entryIDs = append(entryIDs, *invoice.LateFeeEntryID)
	}
	reversals := make([]domain.JournalEntry, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		original, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load entry %s for void: %w", entryID, err)
		}
		lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
		}
		original.Lines = lines
		if original.Reversed() {
			return nil, fmt.Errorf("%w: entry %d", apperrors.ErrAlreadyReversed, original.EntryNumber)
		}
		reversals = append(reversals, buildReversal(*original, reason, actor))
	}

	if err := s.invoiceRepo.VoidInvoice(ctx, tenantID, invoiceID, reversals, actor, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrInvoiceAlreadyPaid) {
			logger.Error("Failed to void invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	logger.Info("Invoice voided",
		slog.String("invoice_id", invoiceID),
		slog.Int64("invoice_number", invoice.InvoiceNumber),
		slog.String("reason", reason))
	return s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
}

// GetInvoiceByID retrieves an invoice with its lines.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
}

// ListInvoices retrieves a page of invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, tenantID, params.OwnerID, params.OpenOnly, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	asOf := accounting.DateOnly(time.Now())
	resp := &dto.ListInvoicesResponse{NextToken: nextToken}
	resp.Invoices = make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i], asOf)
	}
	return resp, nil
}

// lateFeeCheck decides whether an invoice owes a late fee as of a date and
// computes it. A skip is a normal outcome, never an error.
func lateFeeCheck(invoice *domain.Invoice, tenant *domain.Tenant, asOf time.Time) dto.LateFeeResult {
	result := dto.LateFeeResult{InvoiceID: invoice.InvoiceID, Fee: decimal.Zero}
	switch {
	case invoice.IsVoid:
		result.Reason = "invoice is void"
	case !invoice.AmountDue().IsPositive():
		result.Reason = "invoice is paid"
	case invoice.LateFeeEntryID != nil:
		result.Reason = "late fee already applied"
	default:
		daysOverdue := accounting.DaysOverdue(invoice.DueDate, asOf)
		// The fee applies once the invoice is exactly graceDays overdue.
		if daysOverdue <= 0 {
			result.Reason = "not yet due"
		} else if daysOverdue < tenant.LateFeePolicy.GraceDays {
			result.Reason = "within grace period"
		} else {
			result.Applied = true
			result.Fee = accounting.LateFee(invoice.AmountDue(), tenant.LateFeePolicy)
		}
	}
	return result
}

// ApplyLateFee applies the tenant's policy to one invoice. Idempotent per
// overdue cycle through the late-fee entry marker.
func (s *invoiceService) ApplyLateFee(ctx context.Context, tenantID, invoiceID string, asOf time.Time, actor string) (*dto.LateFeeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.controlAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := lateFeeCheck(invoice, tenant, asOf)
	if !result.Applied {
		return &result, nil
	}

	entryLines := []domain.JournalLine{
		{AccountID: tenant.ARAccountID, Debit: result.Fee, Credit: decimal.Zero},
		{AccountID: tenant.LateFeeAccountID, Debit: decimal.Zero, Credit: result.Fee},
	}
	description := fmt.Sprintf("Late fee on invoice %d", invoice.InvoiceNumber)
	entry, err := prepareEntry(ctx, s.accountSvc, tenantID, asOf, domain.EntryLateFee, &invoice.InvoiceID, description, entryLines, actor)
	if err != nil {
		return nil, err
	}

	feeLine := domain.InvoiceLine{
		LineID:           uuid.NewString(),
		InvoiceID:        invoice.InvoiceID,
		RevenueAccountID: tenant.LateFeeAccountID,
		Description:      description,
		Amount:           result.Fee,
		IsLateFee:        true,
	}
	if _, err := s.invoiceRepo.SaveLateFee(ctx, tenantID, invoiceID, feeLine, entry, actor, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race to a concurrent run; the fee is on the invoice.
			result.Applied = false
			result.Fee = decimal.Zero
			result.Reason = "late fee already applied"
			return &result, nil
		}
		logger.Error("Failed to save late fee", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to save late fee: %w", err)
	}

	logger.Info("Late fee applied",
		slog.String("invoice_id", invoiceID),
		slog.Int64("invoice_number", invoice.InvoiceNumber),
		slog.String("fee", result.Fee.String()))
	return &result, nil
}

// RunLateFees sweeps all overdue invoices without an applied fee. Each
// invoice is its own unit of work; one failure never aborts the run.
func (s *invoiceService) RunLateFees(ctx context.Context, tenantID string, asOf time.Time, dryRun bool, actor string) (*dto.LateFeeRunSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.controlAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.invoiceRepo.ListOverdueInvoices(ctx, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}

	summary := &dto.LateFeeRunSummary{AsOf: accounting.DateOnly(asOf), DryRun: dryRun}
	for i := range overdue {
		var result *dto.LateFeeResult
		if dryRun {
			r := lateFeeCheck(&overdue[i], tenant, asOf)
			result = &r
		} else {
			result, err = s.ApplyLateFee(ctx, tenantID, overdue[i].InvoiceID, asOf, actor)
			if err != nil {
				summary.Failed++
				errMsg := err.Error()
				logger.Warn("Late fee run failed for invoice",
					slog.String("invoice_id", overdue[i].InvoiceID),
					slog.String("error", errMsg))
				summary.Results = append(summary.Results, dto.LateFeeResult{
					InvoiceID: overdue[i].InvoiceID,
					Reason:    errMsg,
				})
				continue
			}
		}
		if result.Applied {
			summary.Applied++
		} else {
			summary.Skipped++
		}
		summary.Results = append(summary.Results, *result)
	}

	logger.Info("Late fee run finished",
		slog.String("tenant_id", tenantID),
		slog.Bool("dry_run", dryRun),
		slog.Int("applied", summary.Applied),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
