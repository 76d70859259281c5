package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
	"github.com/hoaops/hoa_ledger_app/internal/utils/accounting"
)

// reportingService produces the derived, read-only views. Everything here is
// recomputed from journal lines and invoice records on each call.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	tenantRepo    portsrepo.TenantRepositoryFacade
	paymentRepo   portsrepo.PaymentReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, tenantRepo portsrepo.TenantRepositoryFacade, paymentRepo portsrepo.PaymentReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		tenantRepo:    tenantRepo,
		paymentRepo:   paymentRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance aggregates account balances up to asOf. Each row's balance is
// signed per the account's normal side, so a healthy liability shows positive.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, fundID *string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	asOf = accounting.DateOnly(asOf)
	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx, tenantID, fundID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		FundID:       fundID,
		Rows:         rows,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for i := range rows {
		switch rows[i].AccountType.NormalBalance() {
		case domain.NormalDebit:
			rows[i].Balance = rows[i].Debit.Sub(rows[i].Credit)
		default:
			rows[i].Balance = rows[i].Credit.Sub(rows[i].Debit)
		}
		report.TotalDebits = report.TotalDebits.Add(rows[i].Debit)
		report.TotalCredits = report.TotalCredits.Add(rows[i].Credit)
	}

	// Tenant-wide the books must balance; a mismatch means corrupted data,
	// which journal-level validation is supposed to make impossible.
	if fundID == nil && !report.TotalDebits.Equal(report.TotalCredits) {
		logger.Error("Trial balance does not balance",
			slog.String("tenant_id", tenantID),
			slog.String("total_debits", report.TotalDebits.String()),
			slog.String("total_credits", report.TotalCredits.String()))
	}
	return report, nil
}

// ARAging buckets open invoice balances by days overdue, per owner.
func (s *reportingService) ARAging(ctx context.Context, tenantID string, asOf time.Time) (*domain.ARAgingReport, error) {
	asOf = accounting.DateOnly(asOf)
	invoices, err := s.reportingRepo.ListOpenInvoicesAsOf(ctx, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list open invoices: %w", err)
	}

	byOwner := make(map[string]*domain.OwnerAgingRow)
	report := &domain.ARAgingReport{
		AsOf:   asOf,
		Totals: make(map[domain.AgingBucket]decimal.Decimal, len(domain.AgingBuckets)),
		Total:  decimal.Zero,
	}
	for _, b := range domain.AgingBuckets {
		report.Totals[b] = decimal.Zero
	}

	for _, inv := range invoices {
		due := inv.AmountDue()
		if !due.IsPositive() {
			continue
		}
		bucket := accounting.AgingBucketFor(accounting.DaysOverdue(inv.DueDate, asOf))

		row, ok := byOwner[inv.OwnerID]
		if !ok {
			row = &domain.OwnerAgingRow{
				OwnerID: inv.OwnerID,
				Buckets: make(map[domain.AgingBucket]decimal.Decimal, len(domain.AgingBuckets)),
				Total:   decimal.Zero,
			}
			for _, b := range domain.AgingBuckets {
				row.Buckets[b] = decimal.Zero
			}
			byOwner[inv.OwnerID] = row
		}
		row.Buckets[bucket] = row.Buckets[bucket].Add(due)
		row.Total = row.Total.Add(due)
		report.Totals[bucket] = report.Totals[bucket].Add(due)
		report.Total = report.Total.Add(due)
	}

	report.Rows = make([]domain.OwnerAgingRow, 0, len(byOwner))
	for _, row := range byOwner {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].OwnerID < report.Rows[j].OwnerID })
	return report, nil
}

// ledgerKindOrder fixes the intra-day ordering of owner ledger lines so
// charges show before the payments covering them.
var ledgerKindOrder = map[string]int{"INVOICE": 0, "LATE_FEE": 1, "PAYMENT": 2}

// OwnerLedger merges one owner's invoices and payments chronologically with a
// running balance. A late fee appears as its own line dated the day it was
// assessed, so earlier balances never shift retroactively. Void invoices are
// excluded since their entries net to zero.
func (s *reportingService) OwnerLedger(ctx context.Context, tenantID, ownerID string) (*domain.OwnerLedger, error) {
	activity, err := s.reportingRepo.ListOwnerInvoiceActivity(ctx, tenantID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner invoices: %w", err)
	}
	payments, err := s.paymentRepo.ListPaymentsByOwner(ctx, tenantID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner payments: %w", err)
	}

	lines := make([]domain.OwnerLedgerLine, 0, len(activity)+len(payments))
	for _, act := range activity {
		inv := act.Invoice
		if inv.IsVoid {
			continue
		}
		lines = append(lines, domain.OwnerLedgerLine{
			Date:        inv.InvoiceDate,
			Kind:        "INVOICE",
			RecordID:    inv.InvoiceID,
			Number:      inv.InvoiceNumber,
			Description: fmt.Sprintf("Invoice %d, unit %s", inv.InvoiceNumber, inv.UnitID),
			Charge:      inv.TotalAmount.Sub(act.LateFee),
			Credit:      decimal.Zero,
		})
		if act.LateFee.IsPositive() && act.LateFeeDate != nil {
			lines = append(lines, domain.OwnerLedgerLine{
				Date:        *act.LateFeeDate,
				Kind:        "LATE_FEE",
				RecordID:    inv.InvoiceID,
				Number:      inv.InvoiceNumber,
				Description: fmt.Sprintf("Late fee on invoice %d", inv.InvoiceNumber),
				Charge:      act.LateFee,
				Credit:      decimal.Zero,
			})
		}
	}
	for _, p := range payments {
		lines = append(lines, domain.OwnerLedgerLine{
			Date:        p.PaymentDate,
			Kind:        "PAYMENT",
			RecordID:    p.PaymentID,
			Number:      p.PaymentNumber,
			Description: fmt.Sprintf("Payment %d (%s)", p.PaymentNumber, p.Method),
			Charge:      decimal.Zero,
			Credit:      p.Amount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		if lines[i].Kind != lines[j].Kind {
			return ledgerKindOrder[lines[i].Kind] < ledgerKindOrder[lines[j].Kind]
		}
		return lines[i].Number < lines[j].Number
	})

	balance := decimal.Zero
	for i := range lines {
		balance = balance.Add(lines[i].Charge).Sub(lines[i].Credit)
		lines[i].Balance = balance
	}
	return &domain.OwnerLedger{OwnerID: ownerID, Lines: lines, Balance: balance}, nil
}

// ReconcileAR is the sub-ledger tie-out: open invoice balances against the AR
// control account. A non-zero variance means the two ledgers disagree.
func (s *reportingService) ReconcileAR(ctx context.Context, tenantID string, asOf time.Time) (*domain.ARReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	asOf = accounting.DateOnly(asOf)

	invoices, err := s.reportingRepo.ListOpenInvoicesAsOf(ctx, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list open invoices: %w", err)
	}
	invoiceTotal := decimal.Zero
	for _, inv := range invoices {
		invoiceTotal = invoiceTotal.Add(inv.AmountDue())
	}

	arBalance, err := s.reportingRepo.GetAccountBalance(ctx, tenantID, tenant.ARAccountID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to compute AR account balance: %w", err)
	}

	recon := &domain.ARReconciliation{
		AsOf:           asOf,
		InvoiceTotal:   invoiceTotal,
		ARAccountTotal: arBalance,
		Variance:       invoiceTotal.Sub(arBalance),
		Balanced:       invoiceTotal.Equal(arBalance),
	}
	if !recon.Balanced {
		logger.Error("AR reconciliation variance detected",
			slog.String("tenant_id", tenantID),
			slog.String("invoice_total", invoiceTotal.String()),
			slog.String("ar_balance", arBalance.String()),
			slog.String("variance", recon.Variance.String()))
	}
	return recon, nil
}
