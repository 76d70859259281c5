package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelPayment converts a domain payment to its row model.
func ToModelPayment(p domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     p.PaymentID,
		TenantID:      p.TenantID,
		PaymentNumber: p.PaymentNumber,
		OwnerID:       p.OwnerID,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Reference:     p.Reference,
		Amount:        p.Amount,
		AmountApplied: p.AmountApplied,
		EntryID:       p.EntryID,
		AuditFields:   ToModelAuditFields(p.AuditFields),
	}
}

// ToDomainPayment converts a payment row model to its domain form.
func ToDomainPayment(p models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     p.PaymentID,
		TenantID:      p.TenantID,
		PaymentNumber: p.PaymentNumber,
		OwnerID:       p.OwnerID,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Reference:     p.Reference,
		Amount:        p.Amount,
		AmountApplied: p.AmountApplied,
		EntryID:       p.EntryID,
		AuditFields:   ToDomainAuditFields(p.AuditFields),
	}
}

// ToModelPaymentApplication converts a domain payment application to its row model.
func ToModelPaymentApplication(a domain.PaymentApplication) models.PaymentApplication {
	return models.PaymentApplication{
		ApplicationID: a.ApplicationID,
		TenantID:      a.TenantID,
		PaymentID:     a.PaymentID,
		InvoiceID:     a.InvoiceID,
		Amount:        a.Amount,
		AppliedAt:     a.AppliedAt,
		AppliedBy:     a.AppliedBy,
		ReversedAt:    a.ReversedAt,
	}
}

// ToDomainPaymentApplication converts a payment application row model to its domain form.
func ToDomainPaymentApplication(a models.PaymentApplication) domain.PaymentApplication {
	return domain.PaymentApplication{
		ApplicationID: a.ApplicationID,
		TenantID:      a.TenantID,
		PaymentID:     a.PaymentID,
		InvoiceID:     a.InvoiceID,
		Amount:        a.Amount,
		AppliedAt:     a.AppliedAt,
		AppliedBy:     a.AppliedBy,
		ReversedAt:    a.ReversedAt,
	}
}
