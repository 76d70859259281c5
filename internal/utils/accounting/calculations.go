package accounting

import (
	"fmt"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumLines returns the debit and credit totals for a set of journal lines.
func SumLines(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// SignedAmount converts a journal line into a balance contribution signed per
// the account's normal balance: a debit increases a debit-normal account and
// decreases a credit-normal one, and vice versa.
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch {
	case line.Debit.IsPositive():
		amount = line.Debit
	case line.Credit.IsPositive():
		amount = line.Credit.Neg()
	default:
		return decimal.Zero, fmt.Errorf("line %s carries neither debit nor credit", line.LineID)
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
}

// DateOnly truncates an instant to a UTC calendar date. All accounting-period
// math goes through this so timezone drift cannot shift a due date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue returns how many whole calendar days asOf is past dueDate.
// Zero or negative means not yet overdue.
func DaysOverdue(dueDate, asOf time.Time) int {
	due := DateOnly(dueDate)
	as := DateOnly(asOf)
	return int(as.Sub(due).Hours() / 24)
}

// AgingBucketFor assigns a days-overdue figure to its aging bucket. An
// invoice due exactly asOf is Current; due asOf-1 is 1-30; due asOf-31 is 31-60.
func AgingBucketFor(daysOverdue int) domain.AgingBucket {
	switch {
	case daysOverdue <= 0:
		return domain.BucketCurrent
	case daysOverdue <= 30:
		return domain.Bucket1To30
	case daysOverdue <= 60:
		return domain.Bucket31To60
	case daysOverdue <= 90:
		return domain.Bucket61To90
	default:
		return domain.BucketOver90
	}
}

// LateFee computes the fee for an overdue balance under a tenant's policy:
// the greater of amountDue*percentRate and the minimum fee, rounded to cents.
func LateFee(amountDue decimal.Decimal, policy domain.LateFeePolicy) decimal.Decimal {
	pct := amountDue.Mul(policy.PercentRate).Round(2)
	if pct.LessThan(policy.MinimumFee) {
		return policy.MinimumFee.Round(2)
	}
	return pct
}
