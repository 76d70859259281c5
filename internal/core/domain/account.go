package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance normally sits.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Account represents a financial account within a fund's chart of accounts.
// Accounts are never deleted, only deactivated, because posted history must
// remain attributable.
type Account struct {
	AccountID   string      `json:"accountID"`
	TenantID    string      `json:"tenantID"`
	FundID      string      `json:"fundID"`
	Code        string      `json:"code"` // user-facing account code, e.g. "1100"
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// NormalBalance is the side a healthy balance of this type sits on.
func (t AccountType) NormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// NormalBalance derives the account's normal balance side from its type.
func (a Account) NormalBalance() NormalBalance {
	return a.AccountType.NormalBalance()
}
