package repositories

import (
	"context"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
)

// TenantReader defines read operations for tenant data.
type TenantReader interface {
	// FindTenantByID retrieves a tenant by its unique identifier.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListTenants retrieves all active tenants. Used by batch jobs that run
	// per tenant (late fees, reconciliation checks).
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenant data.
type TenantWriter interface {
	// SaveTenant persists a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// UpdateTenantSettings updates a tenant's control accounts and late-fee policy.
	UpdateTenantSettings(ctx context.Context, tenant domain.Tenant) error
}

// TenantRepositoryFacade combines all tenant-related repository interfaces.
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
}
