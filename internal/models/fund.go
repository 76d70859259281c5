package models

// Fund is the database row shape for funds.
type Fund struct {
	FundID   string `db:"fund_id"`
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	FundType string `db:"fund_type"`
	IsActive bool   `db:"is_active"`
	AuditFields
}
