package dto

import (
	"time"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTenantRequest creates a new association tenant. Control accounts are
// assigned afterwards via UpdateTenantSettingsRequest once the chart of
// accounts exists.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateTenantSettingsRequest assigns the tenant's control accounts and
// late-fee policy.
type UpdateTenantSettingsRequest struct {
	ARAccountID      *string          `json:"arAccountID,omitempty"`
	CashAccountID    *string          `json:"cashAccountID,omitempty"`
	LateFeeAccountID *string          `json:"lateFeeAccountID,omitempty"`
	GraceDays        *int             `json:"graceDays,omitempty" binding:"omitempty,gte=0"`
	PercentRate      *decimal.Decimal `json:"percentRate,omitempty"`
	MinimumFee       *decimal.Decimal `json:"minimumFee,omitempty"`
}

// TenantResponse is the API shape of a tenant.
type TenantResponse struct {
	TenantID         string          `json:"tenantID"`
	Name             string          `json:"name"`
	ARAccountID      string          `json:"arAccountID"`
	CashAccountID    string          `json:"cashAccountID"`
	LateFeeAccountID string          `json:"lateFeeAccountID"`
	GraceDays        int             `json:"graceDays"`
	PercentRate      decimal.Decimal `json:"percentRate"`
	MinimumFee       decimal.Decimal `json:"minimumFee"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToTenantResponse converts a domain tenant to its API shape.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:         t.TenantID,
		Name:             t.Name,
		ARAccountID:      t.ARAccountID,
		CashAccountID:    t.CashAccountID,
		LateFeeAccountID: t.LateFeeAccountID,
		GraceDays:        t.LateFeePolicy.GraceDays,
		PercentRate:      t.LateFeePolicy.PercentRate,
		MinimumFee:       t.LateFeePolicy.MinimumFee,
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
	}
}
