package services

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// PaymentSvcFacade defines the payment ledger operations.
type PaymentSvcFacade interface {
	// RecordPayment posts the cash entry at the full amount and immediately
	// allocates the payment across the owner's open invoices (FIFO unless a
	// manual allocation list is supplied).
	RecordPayment(ctx context.Context, tenantID string, req dto.RecordPaymentRequest, actor string) (*domain.Payment, []domain.PaymentApplication, error)

	GetPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentApplication, error)
	ListPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// UnapplyApplication reverses one misallocated application, restoring
	// the invoice balance and the payment's standing credit. The underlying
	// cash entry stays posted.
	UnapplyApplication(ctx context.Context, tenantID, applicationID, actor string) (*domain.PaymentApplication, error)

	// ImportPayments records a batch of payments, one row at a time; a
	// failed row is reported and never aborts the batch.
	ImportPayments(ctx context.Context, tenantID string, rows []dto.PaymentImportRow, actor string) (*dto.PaymentImportSummary, error)
}
