package models

import "github.com/shopspring/decimal"

// Tenant is the database row shape for tenants, including the flattened
// late-fee policy columns.
type Tenant struct {
	TenantID         string          `db:"tenant_id"`
	Name             string          `db:"name"`
	ARAccountID      string          `db:"ar_account_id"`
	CashAccountID    string          `db:"cash_account_id"`
	LateFeeAccountID string          `db:"late_fee_account_id"`
	LateFeeGraceDays int             `db:"late_fee_grace_days"`
	LateFeePctRate   decimal.Decimal `db:"late_fee_pct_rate"`
	LateFeeMinimum   decimal.Decimal `db:"late_fee_minimum"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}
