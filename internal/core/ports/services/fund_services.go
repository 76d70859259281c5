package services

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// FundSvcFacade defines fund (sub-ledger) management operations.
type FundSvcFacade interface {
	CreateFund(ctx context.Context, tenantID string, req dto.CreateFundRequest, actor string) (*domain.Fund, error)
	GetFundByID(ctx context.Context, tenantID, fundID string) (*domain.Fund, error)
	ListFunds(ctx context.Context, tenantID string) ([]domain.Fund, error)
}
