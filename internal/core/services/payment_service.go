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
	"github.com/hoaops/hoa_ledger_app/internal/utils/allocation"
)

// maxAllocationRetries bounds the re-attempts when the allocation transaction
// loses a lock or serialization race against a concurrent payment.
const maxAllocationRetries = 3

// paymentService is the payment ledger. The cash entry always posts at the
// full receipt amount; allocation across invoices happens in the same
// transaction via the injected allocator.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewPaymentService creates a new payment ledger service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, tenantRepo portsrepo.TenantRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		tenantRepo:  tenantRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment posts the cash receipt and allocates it across the owner's
// open invoices, FIFO unless a manual allocation list is supplied. Retries a
// bounded number of times when a concurrent payment wins the invoice locks.
func (s *paymentService) RecordPayment(ctx context.Context, tenantID string, req dto.RecordPaymentRequest, actor string) (*domain.Payment, []domain.PaymentApplication, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount", apperrors.ErrNonPositiveAmount)
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if tenant.CashAccountID == "" || tenant.ARAccountID == "" {
		return nil, nil, fmt.Errorf("%w: tenant control accounts are not configured", apperrors.ErrValidation)
	}

	allocate := func(open []domain.Invoice) ([]allocation.Allocation, decimal.Decimal, error) {
		if len(req.ManualAllocations) > 0 {
			return allocation.Manual(req.Amount, open, req.ManualAllocations)
		}
		allocations, remainder := allocation.FIFO(req.Amount, open)
		return allocations, remainder, nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxAllocationRetries; attempt++ {
		payment, entry, err := s.buildPayment(ctx, tenant, req, actor)
		if err != nil {
			return nil, nil, err
		}

		saved, applications, err := s.paymentRepo.SavePaymentWithApplications(ctx, payment, entry, allocate)
		if err == nil {
			logger.Info("Payment recorded",
				slog.String("payment_id", saved.PaymentID),
				slog.Int64("payment_number", saved.PaymentNumber),
				slog.String("owner_id", saved.OwnerID),
				slog.String("amount", saved.Amount.String()),
				slog.String("unapplied", saved.AmountUnapplied().String()))
			return saved, applications, nil
		}
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			logger.Error("Failed to record payment", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
			return nil, nil, err
		}
		lastErr = err
		logger.Warn("Payment allocation conflicted, retrying",
			slog.Int("attempt", attempt),
			slog.String("owner_id", req.OwnerID))
	}
	return nil, nil, fmt.Errorf("payment allocation failed after %d attempts: %w", maxAllocationRetries, lastErr)
}

// buildPayment assembles the payment record and its validated cash entry.
// The receipt debits cash and credits AR at the full amount; any unapplied
// remainder stays in AR as the owner's standing credit.
func (s *paymentService) buildPayment(ctx context.Context, tenant *domain.Tenant, req dto.RecordPaymentRequest, actor string) (domain.Payment, domain.JournalEntry, error) {
	paymentID := uuid.NewString()
	entryLines := []domain.JournalLine{
		{AccountID: tenant.CashAccountID, Debit: req.Amount, Credit: decimal.Zero},
		{AccountID: tenant.ARAccountID, Debit: decimal.Zero, Credit: req.Amount},
	}
	description := fmt.Sprintf("Payment from owner %s", req.OwnerID)
	if req.Reference != "" {
		description = fmt.Sprintf("%s (%s)", description, req.Reference)
	}
	entry, err := prepareEntry(ctx, s.accountSvc, tenant.TenantID, req.PaymentDate, domain.EntryPayment, &paymentID, description, entryLines, actor)
	if err != nil {
		return domain.Payment{}, domain.JournalEntry{}, err
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:     paymentID,
		TenantID:      tenant.TenantID,
		OwnerID:       req.OwnerID,
		PaymentDate:   accounting.DateOnly(req.PaymentDate),
		Method:        req.Method,
		Reference:     req.Reference,
		Amount:        req.Amount,
		AmountApplied: decimal.Zero,
		EntryID:       entry.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	return payment, entry, nil
}

// GetPaymentByID retrieves a payment with its applications.
func (s *paymentService) GetPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentApplication, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, nil, err
	}
	applications, err := s.paymentRepo.ListApplicationsByPayment(ctx, tenantID, paymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve applications for payment %s: %w", paymentID, err)
	}
	return payment, applications, nil
}

// ListPayments retrieves a page of payments.
func (s *paymentService) ListPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, tenantID, params.OwnerID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	resp := &dto.ListPaymentsResponse{NextToken: nextToken}
	resp.Payments = make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		resp.Payments[i] = dto.ToPaymentResponse(&payments[i], nil)
	}
	return resp, nil
}

// UnapplyApplication reverses one misallocated application. The invoice's
// balance reopens and the amount returns to the payment's standing credit;
// the cash entry is untouched because the cash was genuinely received.
func (s *paymentService) UnapplyApplication(ctx context.Context, tenantID, applicationID, actor string) (*domain.PaymentApplication, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reversed, err := s.paymentRepo.ReverseApplication(ctx, tenantID, applicationID, actor, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyReversed) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to reverse application", slog.String("error", err.Error()), slog.String("application_id", applicationID))
		}
		return nil, err
	}

	logger.Info("Payment application reversed",
		slog.String("application_id", applicationID),
		slog.String("payment_id", reversed.PaymentID),
		slog.String("invoice_id", reversed.InvoiceID),
		slog.String("amount", reversed.Amount.String()))
	return reversed, nil
}

// ImportPayments records a batch of payments row by row. Every row allocates
// FIFO; a failed row is reported in the summary and never aborts the batch.
func (s *paymentService) ImportPayments(ctx context.Context, tenantID string, rows []dto.PaymentImportRow, actor string) (*dto.PaymentImportSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	summary := &dto.PaymentImportSummary{Total: len(rows)}
	for i, row := range rows {
		result := dto.PaymentImportRowResult{Row: i + 1}
		payment, _, err := s.RecordPayment(ctx, tenantID, dto.RecordPaymentRequest{
			OwnerID:     row.OwnerID,
			PaymentDate: row.PaymentDate,
			Amount:      row.Amount,
			Method:      row.Method,
			Reference:   row.Reference,
		}, actor)
		if err != nil {
			errMsg := err.Error()
			result.Error = &errMsg
			summary.Failed++
		} else {
			result.PaymentID = payment.PaymentID
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, result)
	}

	logger.Info("Payment import finished",
		slog.String("tenant_id", tenantID),
		slog.Int("total", summary.Total),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
