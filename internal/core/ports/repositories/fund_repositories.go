package repositories

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// FundReader defines read operations for fund data.
type FundReader interface {
	// FindFundByID retrieves a fund by its unique identifier.
	FindFundByID(ctx context.Context, tenantID, fundID string) (*domain.Fund, error)

	// ListFunds retrieves all funds for a tenant.
	ListFunds(ctx context.Context, tenantID string) ([]domain.Fund, error)
}

// FundWriter defines write operations for fund data.
type FundWriter interface {
	// SaveFund persists a new fund.
	SaveFund(ctx context.Context, fund domain.Fund) error
}

// FundRepositoryFacade combines all fund-related repository interfaces.
type FundRepositoryFacade interface {
	FundReader
	FundWriter
}
