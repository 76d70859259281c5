package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// tenantService manages tenants and their ledger policy settings.
type tenantService struct {
	tenantRepo    portsrepo.TenantRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	defaultPolicy domain.LateFeePolicy
}

// NewTenantService creates a new tenant service. New tenants inherit the
// configured default late-fee policy until the board sets its own.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, defaultPolicy domain.LateFeePolicy) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo:    tenantRepo,
		accountRepo:   accountRepo,
		defaultPolicy: defaultPolicy,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant provisions a new tenant with the default late-fee policy.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, actor string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:      uuid.NewString(),
		Name:          req.Name,
		LateFeePolicy: s.defaultPolicy,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		logger.Error("Failed to save tenant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("name", tenant.Name))
	return &tenant, nil
}

// GetTenantByID retrieves one tenant.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	return s.tenantRepo.FindTenantByID(ctx, tenantID)
}

// ListTenants retrieves all active tenants.
func (s *tenantService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return s.tenantRepo.ListTenants(ctx)
}

// UpdateTenantSettings updates control accounts and the late-fee policy.
// Control accounts must exist in the tenant and be active.
func (s *tenantService) UpdateTenantSettings(ctx context.Context, tenantID string, req dto.UpdateTenantSettingsRequest, actor string) (*domain.Tenant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	setAccount := func(field *string, accountID string) error {
		acc, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
		if err != nil {
			return fmt.Errorf("%w: control account %s", apperrors.ErrInvalidAccount, accountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: control account %s is inactive", apperrors.ErrInvalidAccount, accountID)
		}
		*field = accountID
		return nil
	}

	if req.ARAccountID != nil {
		if err := setAccount(&tenant.ARAccountID, *req.ARAccountID); err != nil {
			return nil, err
		}
	}
	if req.CashAccountID != nil {
		if err := setAccount(&tenant.CashAccountID, *req.CashAccountID); err != nil {
			return nil, err
		}
	}
	if req.LateFeeAccountID != nil {
		if err := setAccount(&tenant.LateFeeAccountID, *req.LateFeeAccountID); err != nil {
			return nil, err
		}
	}
	if req.GraceDays != nil {
		if *req.GraceDays < 0 {
			return nil, fmt.Errorf("%w: grace days must be non-negative", apperrors.ErrValidation)
		}
		tenant.LateFeePolicy.GraceDays = *req.GraceDays
	}
	if req.PercentRate != nil {
		if req.PercentRate.IsNegative() {
			return nil, fmt.Errorf("%w: percent rate must be non-negative", apperrors.ErrValidation)
		}
		tenant.LateFeePolicy.PercentRate = *req.PercentRate
	}
	if req.MinimumFee != nil {
		if req.MinimumFee.IsNegative() {
			return nil, fmt.Errorf("%w: minimum fee must be non-negative", apperrors.ErrValidation)
		}
		tenant.LateFeePolicy.MinimumFee = *req.MinimumFee
	}

	tenant.LastUpdatedAt = time.Now().UTC()
	tenant.LastUpdatedBy = actor

	if err := s.tenantRepo.UpdateTenantSettings(ctx, *tenant); err != nil {
		logger.Error("Failed to update tenant settings", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to update tenant settings: %w", err)
	}

	logger.Info("Tenant settings updated", slog.String("tenant_id", tenantID))
	return tenant, nil
}
