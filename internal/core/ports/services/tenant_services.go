package services

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// TenantSvcFacade defines tenant management operations. Tenant identity is
// always an explicit parameter on engine calls, never ambient request state.
type TenantSvcFacade interface {
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, actor string) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	UpdateTenantSettings(ctx context.Context, tenantID string, req dto.UpdateTenantSettingsRequest, actor string) (*domain.Tenant, error)
}
