package services

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// AccountSvcFacade defines chart-of-accounts operations. Accounts deactivate
// rather than delete so history stays attributable.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string, fundID *string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, tenantID, accountID, actor string) error
}
