package dto

import (
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records a cash receipt. When ManualAllocations is
// empty the payment is allocated FIFO across the owner's open invoices;
// otherwise the explicit list is validated and applied.
type RecordPaymentRequest struct {
	OwnerID           string                  `json:"ownerID" binding:"required"`
	PaymentDate       time.Time               `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	Amount            decimal.Decimal         `json:"amount" binding:"required"`
	Method            string                  `json:"method" binding:"required,oneof=CHECK ACH CARD CASH"`
	Reference         string                  `json:"reference"`
	ManualAllocations []allocation.ManualSpec `json:"manualAllocations,omitempty"`
}

// PaymentApplicationResponse is the API shape of a payment application.
type PaymentApplicationResponse struct {
	ApplicationID string          `json:"applicationID"`
	PaymentID     string          `json:"paymentID"`
	InvoiceID     string          `json:"invoiceID"`
	Amount        decimal.Decimal `json:"amount"`
	AppliedAt     time.Time       `json:"appliedAt"`
	Reversed      bool            `json:"reversed"`
}

// PaymentResponse is the API shape of a payment with its applications.
type PaymentResponse struct {
	PaymentID       string                       `json:"paymentID"`
	PaymentNumber   int64                        `json:"paymentNumber"`
	OwnerID         string                       `json:"ownerID"`
	PaymentDate     time.Time                    `json:"paymentDate"`
	Method          string                       `json:"method"`
	Reference       string                       `json:"reference"`
	Amount          decimal.Decimal              `json:"amount"`
	AmountApplied   decimal.Decimal              `json:"amountApplied"`
	AmountUnapplied decimal.Decimal              `json:"amountUnapplied"`
	EntryID         string                       `json:"entryID"`
	Applications    []PaymentApplicationResponse `json:"applications,omitempty"`
}

// ToPaymentApplicationResponse converts a domain application to its API shape.
func ToPaymentApplicationResponse(a *domain.PaymentApplication) PaymentApplicationResponse {
	return PaymentApplicationResponse{
		ApplicationID: a.ApplicationID,
		PaymentID:     a.PaymentID,
		InvoiceID:     a.InvoiceID,
		Amount:        a.Amount,
		AppliedAt:     a.AppliedAt,
		Reversed:      a.ReversedAt != nil,
	}
}

// ToPaymentResponse converts a domain payment and its applications to the API shape.
func ToPaymentResponse(p *domain.Payment, applications []domain.PaymentApplication) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:       p.PaymentID,
		PaymentNumber:   p.PaymentNumber,
		OwnerID:         p.OwnerID,
		PaymentDate:     p.PaymentDate,
		Method:          p.Method,
		Reference:       p.Reference,
		Amount:          p.Amount,
		AmountApplied:   p.AmountApplied,
		AmountUnapplied: p.AmountUnapplied(),
		EntryID:         p.EntryID,
	}
	for i := range applications {
		resp.Applications = append(resp.Applications, ToPaymentApplicationResponse(&applications[i]))
	}
	return resp
}

// ListPaymentsParams holds parameters for listing payments.
type ListPaymentsParams struct {
	OwnerID   *string `form:"ownerID"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse is a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// PaymentImportRow is one CSV row of a batch payment import.
type PaymentImportRow struct {
	OwnerID     string
	PaymentDate time.Time
	Amount      decimal.Decimal
	Method      string
	Reference   string
}

// PaymentImportRowResult is the per-row outcome of a batch import. One
// failed row never aborts the batch.
type PaymentImportRowResult struct {
	Row       int     `json:"row"`
	PaymentID string  `json:"paymentID,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// PaymentImportSummary reports the outcome of a batch payment import.
type PaymentImportSummary struct {
	Total     int                      `json:"total"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	Results   []PaymentImportRowResult `json:"results"`
}
