package models

// Account is the database row shape for accounts.
type Account struct {
	AccountID   string `db:"account_id"`
	TenantID    string `db:"tenant_id"`
	FundID      string `db:"fund_id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
