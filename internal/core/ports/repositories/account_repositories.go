package repositories

import (
	"context"
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data. Accounts and funds
// are read-mostly reference data, safe for concurrent read without locking.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by ID.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts for a tenant, optionally scoped to one fund.
	ListAccounts(ctx context.Context, tenantID string, fundID *string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. There is no
// delete: accounts are deactivated so posted history stays attributable.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's descriptive fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, tenantID, accountID, actor string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
