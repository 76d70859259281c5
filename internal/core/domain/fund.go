package domain

// FundType categorizes a fund's purpose within the association.
type FundType string

const (
	FundOperating         FundType = "OPERATING"
	FundReserve           FundType = "RESERVE"
	FundSpecialAssessment FundType = "SPECIAL_ASSESSMENT"
)

// Fund is a named sub-ledger owned by a tenant. Each account belongs to
// exactly one fund; a journal entry's lines never span funds. Inter-fund
// transfers are modeled as two linked entries, one per fund, each balanced,
// so funds cannot be commingled by accident.
type Fund struct {
	FundID   string   `json:"fundID"`
	TenantID string   `json:"tenantID"`
	Name     string   `json:"name"`
	FundType FundType `json:"fundType"`
	IsActive bool     `json:"isActive"`
	AuditFields
}
