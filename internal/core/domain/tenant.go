package domain

import "github.com/shopspring/decimal"

// LateFeePolicy is the canonical late-fee configuration for a tenant.
// It replaces per-call-site literals: every late-fee run for the tenant
// reads the same grace period and rates.
type LateFeePolicy struct {
	GraceDays   int             `json:"graceDays"`
	PercentRate decimal.Decimal `json:"percentRate"` // e.g. 0.05 for 5%
	MinimumFee  decimal.Decimal `json:"minimumFee"`
}

// Tenant is the isolation boundary. Every other entity is scoped to exactly
// one tenant; no cross-tenant reads are permitted anywhere in the engine.
type Tenant struct {
	TenantID string `json:"tenantID"`
	Name     string `json:"name"`

	// Control accounts the invoice and payment ledgers post against.
	ARAccountID      string `json:"arAccountID"`
	CashAccountID    string `json:"cashAccountID"`
	LateFeeAccountID string `json:"lateFeeAccountID"`

	LateFeePolicy LateFeePolicy `json:"lateFeePolicy"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}
