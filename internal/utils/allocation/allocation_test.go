package allocation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoice(id string, number int64, date time.Time, total, paid string) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     id,
		InvoiceNumber: number,
		InvoiceDate:   date,
		TotalAmount:   d(total),
		AmountPaid:    d(paid),
	}
}

func TestFIFO_SplitsAcrossInvoicesOldestFirst(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-feb", 2, feb, "100", "0"),
		invoice("inv-jan", 1, jan, "100", "0"),
	}

	allocations, remainder := FIFO(d("150"), open)

	assert.Len(t, allocations, 2)
	assert.Equal(t, "inv-jan", allocations[0].InvoiceID, "oldest invoice absorbs first")
	assert.True(t, allocations[0].Amount.Equal(d("100")))
	assert.Equal(t, "inv-feb", allocations[1].InvoiceID)
	assert.True(t, allocations[1].Amount.Equal(d("50")))
	assert.True(t, remainder.IsZero())
}

func TestFIFO_SameDateTieBreaksOnNumber(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-2", 2, day, "60", "0"),
		invoice("inv-1", 1, day, "60", "0"),
	}

	allocations, _ := FIFO(d("60"), open)

	assert.Len(t, allocations, 1)
	assert.Equal(t, "inv-1", allocations[0].InvoiceID)
}

func TestFIFO_OverpaymentLeavesRemainder(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-1", 1, jan, "100", "0"),
		invoice("inv-2", 2, jan.AddDate(0, 1, 0), "100", "0"),
	}

	allocations, remainder := FIFO(d("300"), open)

	assert.Len(t, allocations, 2)
	assert.True(t, remainder.Equal(d("100")), "everything beyond total due is a standing credit")
}

func TestFIFO_SkipsSettledInvoices(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-paid", 1, jan, "100", "100"),
		invoice("inv-open", 2, jan.AddDate(0, 1, 0), "50", "0"),
	}

	allocations, remainder := FIFO(d("50"), open)

	assert.Len(t, allocations, 1)
	assert.Equal(t, "inv-open", allocations[0].InvoiceID)
	assert.True(t, remainder.IsZero())
}

func TestFIFO_PartiallyPaidInvoiceAbsorbsOnlyItsDue(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-1", 1, jan, "100", "70"),
	}

	allocations, remainder := FIFO(d("50"), open)

	assert.Len(t, allocations, 1)
	assert.True(t, allocations[0].Amount.Equal(d("30")))
	assert.True(t, remainder.Equal(d("20")))
}

func TestManual_AppliesExplicitList(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-1", 1, jan, "100", "0"),
		invoice("inv-2", 2, jan.AddDate(0, 1, 0), "100", "0"),
	}
	spec := []ManualSpec{
		{InvoiceID: "inv-2", Amount: d("80")},
		{InvoiceID: "inv-1", Amount: d("10")},
	}

	allocations, remainder, err := Manual(d("100"), open, spec)

	assert.NoError(t, err)
	assert.Len(t, allocations, 2)
	assert.Equal(t, "inv-2", allocations[0].InvoiceID, "manual order is preserved")
	assert.True(t, remainder.Equal(d("10")))
}

func TestManual_RejectsOverApplication(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{invoice("inv-1", 1, jan, "100", "60")}

	_, _, err := Manual(d("100"), open, []ManualSpec{{InvoiceID: "inv-1", Amount: d("50")}})

	assert.ErrorIs(t, err, apperrors.ErrOverApplication, "applying beyond amount due must fail")
}

func TestManual_RejectsRepeatedInvoiceBeyondDue(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{invoice("inv-1", 1, jan, "100", "0")}
	spec := []ManualSpec{
		{InvoiceID: "inv-1", Amount: d("60")},
		{InvoiceID: "inv-1", Amount: d("60")},
	}

	_, _, err := Manual(d("120"), open, spec)

	assert.ErrorIs(t, err, apperrors.ErrOverApplication, "amounts for the same invoice must accumulate against its due")
}

func TestManual_AllowsRepeatedInvoiceWithinDue(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{invoice("inv-1", 1, jan, "100", "0")}
	spec := []ManualSpec{
		{InvoiceID: "inv-1", Amount: d("30")},
		{InvoiceID: "inv-1", Amount: d("40")},
	}

	allocations, remainder, err := Manual(d("100"), open, spec)

	assert.NoError(t, err)
	assert.Len(t, allocations, 2)
	assert.True(t, remainder.Equal(d("30")))
}

func TestManual_RejectsTotalBeyondPayment(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{
		invoice("inv-1", 1, jan, "100", "0"),
		invoice("inv-2", 2, jan, "100", "0"),
	}
	spec := []ManualSpec{
		{InvoiceID: "inv-1", Amount: d("80")},
		{InvoiceID: "inv-2", Amount: d("80")},
	}

	_, _, err := Manual(d("100"), open, spec)

	assert.ErrorIs(t, err, apperrors.ErrOverApplication)
}

func TestManual_RejectsUnknownInvoice(t *testing.T) {
	_, _, err := Manual(d("100"), nil, []ManualSpec{{InvoiceID: "inv-missing", Amount: d("10")}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestManual_RejectsNonPositiveAmount(t *testing.T) {
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := []domain.Invoice{invoice("inv-1", 1, jan, "100", "0")}

	_, _, err := Manual(d("100"), open, []ManualSpec{{InvoiceID: "inv-1", Amount: decimal.Zero}})
	assert.ErrorIs(t, err, apperrors.ErrNonPositiveAmount)
}
