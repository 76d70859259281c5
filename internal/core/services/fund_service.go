package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// fundService manages the tenant's sub-ledgers.
type fundService struct {
	fundRepo portsrepo.FundRepositoryFacade
}

// NewFundService creates a new fund service.
func NewFundService(fundRepo portsrepo.FundRepositoryFacade) portssvc.FundSvcFacade {
	return &fundService{fundRepo: fundRepo}
}

var _ portssvc.FundSvcFacade = (*fundService)(nil)

// CreateFund creates a new fund for a tenant.
func (s *fundService) CreateFund(ctx context.Context, tenantID string, req dto.CreateFundRequest, actor string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:   uuid.NewString(),
		TenantID: tenantID,
		Name:     req.Name,
		FundType: domain.FundType(req.FundType),
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		logger.Error("Failed to save fund", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save fund: %w", err)
	}

	logger.Info("Fund created", slog.String("fund_id", fund.FundID), slog.String("tenant_id", tenantID))
	return &fund, nil
}

// GetFundByID retrieves one fund.
func (s *fundService) GetFundByID(ctx context.Context, tenantID, fundID string) (*domain.Fund, error) {
	return s.fundRepo.FindFundByID(ctx, tenantID, fundID)
}

// ListFunds retrieves all funds for a tenant.
func (s *fundService) ListFunds(ctx context.Context, tenantID string) ([]domain.Fund, error) {
	return s.fundRepo.ListFunds(ctx, tenantID)
}
