package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelInvoice converts a domain invoice to its row model.
func ToModelInvoice(i domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      i.InvoiceID,
		TenantID:       i.TenantID,
		InvoiceNumber:  i.InvoiceNumber,
		OwnerID:        i.OwnerID,
		UnitID:         i.UnitID,
		InvoiceDate:    i.InvoiceDate,
		DueDate:        i.DueDate,
		TotalAmount:    i.TotalAmount,
		AmountPaid:     i.AmountPaid,
		EntryID:        i.EntryID,
		LateFeeEntryID: i.LateFeeEntryID,
		IsVoid:         i.IsVoid,
		AuditFields:    ToModelAuditFields(i.AuditFields),
	}
}

// ToDomainInvoice converts an invoice row model to its domain form.
func ToDomainInvoice(i models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      i.InvoiceID,
		TenantID:       i.TenantID,
		InvoiceNumber:  i.InvoiceNumber,
		OwnerID:        i.OwnerID,
		UnitID:         i.UnitID,
		InvoiceDate:    i.InvoiceDate,
		DueDate:        i.DueDate,
		TotalAmount:    i.TotalAmount,
		AmountPaid:     i.AmountPaid,
		EntryID:        i.EntryID,
		LateFeeEntryID: i.LateFeeEntryID,
		IsVoid:         i.IsVoid,
		AuditFields:    ToDomainAuditFields(i.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain invoice line to its row model.
func ToModelInvoiceLine(l domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:           l.LineID,
		InvoiceID:        l.InvoiceID,
		RevenueAccountID: l.RevenueAccountID,
		Description:      l.Description,
		Amount:           l.Amount,
		IsLateFee:        l.IsLateFee,
	}
}

// ToDomainInvoiceLine converts an invoice line row model to its domain form.
func ToDomainInvoiceLine(l models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:           l.LineID,
		InvoiceID:        l.InvoiceID,
		RevenueAccountID: l.RevenueAccountID,
		Description:      l.Description,
		Amount:           l.Amount,
		IsLateFee:        l.IsLateFee,
	}
}
