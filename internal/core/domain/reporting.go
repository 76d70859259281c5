package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's aggregated debits, credits and balance
// signed per the account's normal balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	FundID      string          `json:"fundID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceReport aggregates all account balances as of a date. Across a
// whole tenant TotalDebits must equal TotalCredits; individual funds need not
// each net to zero since equity accounts absorb the difference.
type TrialBalanceReport struct {
	AsOf         time.Time         `json:"asOf"`
	FundID       *string           `json:"fundID,omitempty"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}

// AgingBucket names a days-overdue band for AR aging.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "CURRENT"
	Bucket1To30   AgingBucket = "1_30"
	Bucket31To60  AgingBucket = "31_60"
	Bucket61To90  AgingBucket = "61_90"
	BucketOver90  AgingBucket = "90_PLUS"
)

// AgingBuckets lists the buckets in ascending overdue order.
var AgingBuckets = []AgingBucket{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// OwnerAgingRow is one owner's open balances split across aging buckets.
type OwnerAgingRow struct {
	OwnerID string                          `json:"ownerID"`
	Buckets map[AgingBucket]decimal.Decimal `json:"buckets"`
	Total   decimal.Decimal                 `json:"total"`
}

// ARAgingReport buckets unpaid invoice balances by days overdue. Its grand
// total ties out to the AR account balance on the trial balance.
type ARAgingReport struct {
	AsOf   time.Time                       `json:"asOf"`
	Rows   []OwnerAgingRow                 `json:"rows"`
	Totals map[AgingBucket]decimal.Decimal `json:"totals"`
	Total  decimal.Decimal                 `json:"total"`
}

// OwnerInvoiceActivity pairs an invoice with its late-fee assessment. The fee
// amount and date are carried separately so ledger views can charge the fee
// on the day it was posted rather than folding it into the invoice date.
type OwnerInvoiceActivity struct {
	Invoice     Invoice
	LateFee     decimal.Decimal
	LateFeeDate *time.Time
}

// OwnerLedgerLine is one charge or credit in an owner's chronological ledger
// with the running balance after it.
type OwnerLedgerLine struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"` // INVOICE, LATE_FEE or PAYMENT
	RecordID    string          `json:"recordID"`
	Number      int64           `json:"number"`
	Description string          `json:"description"`
	Charge      decimal.Decimal `json:"charge"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// OwnerLedger is the derived, recomputed-on-read merge of one owner's
// invoices and payments.
type OwnerLedger struct {
	OwnerID string            `json:"ownerID"`
	Lines   []OwnerLedgerLine `json:"lines"`
	Balance decimal.Decimal   `json:"balance"`
}

// ARReconciliation is the sub-ledger-to-general-ledger tie-out: the open
// invoice total must equal the AR control account balance to the penny.
type ARReconciliation struct {
	AsOf           time.Time       `json:"asOf"`
	InvoiceTotal   decimal.Decimal `json:"invoiceTotal"`
	ARAccountTotal decimal.Decimal `json:"arAccountTotal"`
	Variance       decimal.Decimal `json:"variance"`
	Balanced       bool            `json:"balanced"`
}
