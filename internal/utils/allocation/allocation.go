// Package allocation implements payment-to-invoice allocation as pure
// functions over in-memory values. The payment ledger wraps these in a
// transactional shell that locks the invoices first, which keeps the
// algorithm unit-testable without a database.
package allocation

import (
	"fmt"
	"sort"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Allocation is one (invoice, amount) slice of a payment.
type Allocation struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// ManualSpec is a caller-supplied override of FIFO ordering.
type ManualSpec struct {
	InvoiceID string          `json:"invoiceID"`
	Amount    decimal.Decimal `json:"amount"`
}

// FIFO allocates a payment amount across open invoices oldest-first
// (invoice_date ascending, ties broken by invoice_number ascending). Each
// invoice absorbs up to its amount due; whatever is left after all open
// invoices are satisfied is returned as the unapplied remainder. A remainder
// is a standing credit, not an error.
func FIFO(amount decimal.Decimal, open []domain.Invoice) ([]Allocation, decimal.Decimal) {
	invoices := make([]domain.Invoice, len(open))
	copy(invoices, open)
	sort.SliceStable(invoices, func(i, j int) bool {
		if !invoices[i].InvoiceDate.Equal(invoices[j].InvoiceDate) {
			return invoices[i].InvoiceDate.Before(invoices[j].InvoiceDate)
		}
		return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber
	})

	remaining := amount
	var allocations []Allocation
	for _, inv := range invoices {
		if !remaining.IsPositive() {
			break
		}
		due := inv.AmountDue()
		if !due.IsPositive() {
			continue
		}
		applied := decimal.Min(remaining, due)
		allocations = append(allocations, Allocation{InvoiceID: inv.InvoiceID, Amount: applied})
		remaining = remaining.Sub(applied)
	}
	return allocations, remaining
}

// Manual validates a caller-supplied allocation list against the payment
// amount and each invoice's amount due at allocation time. Amounts for the
// same invoice accumulate, so a list may name an invoice more than once but
// its combined total must still fit the amount due. The caller must hold
// locks on the invoices for the validation to be meaningful.
func Manual(amount decimal.Decimal, open []domain.Invoice, spec []ManualSpec) ([]Allocation, decimal.Decimal, error) {
	byID := make(map[string]domain.Invoice, len(open))
	for _, inv := range open {
		byID[inv.InvoiceID] = inv
	}

	total := decimal.Zero
	perInvoice := make(map[string]decimal.Decimal, len(spec))
	allocations := make([]Allocation, 0, len(spec))
	for _, s := range spec {
		if !s.Amount.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: allocation for invoice %s", apperrors.ErrNonPositiveAmount, s.InvoiceID)
		}
		inv, ok := byID[s.InvoiceID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice %s is not open for this owner", apperrors.ErrNotFound, s.InvoiceID)
		}
		applied := perInvoice[s.InvoiceID].Add(s.Amount)
		if applied.GreaterThan(inv.AmountDue()) {
			return nil, decimal.Zero, fmt.Errorf("%w: %s exceeds amount due %s on invoice %s",
				apperrors.ErrOverApplication, applied, inv.AmountDue(), s.InvoiceID)
		}
		perInvoice[s.InvoiceID] = applied
		total = total.Add(s.Amount)
		allocations = append(allocations, Allocation{InvoiceID: s.InvoiceID, Amount: s.Amount})
	}
	if total.GreaterThan(amount) {
		return nil, decimal.Zero, fmt.Errorf("%w: allocations total %s exceeds payment amount %s",
			apperrors.ErrOverApplication, total, amount)
	}
	return allocations, amount.Sub(total), nil
}
