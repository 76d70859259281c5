package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelTenant converts a domain tenant to its row model.
func ToModelTenant(t domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:         t.TenantID,
		Name:             t.Name,
		ARAccountID:      t.ARAccountID,
		CashAccountID:    t.CashAccountID,
		LateFeeAccountID: t.LateFeeAccountID,
		LateFeeGraceDays: t.LateFeePolicy.GraceDays,
		LateFeePctRate:   t.LateFeePolicy.PercentRate,
		LateFeeMinimum:   t.LateFeePolicy.MinimumFee,
		IsActive:         t.IsActive,
		AuditFields:      ToModelAuditFields(t.AuditFields),
	}
}

// ToDomainTenant converts a tenant row model to its domain form.
func ToDomainTenant(t models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:         t.TenantID,
		Name:             t.Name,
		ARAccountID:      t.ARAccountID,
		CashAccountID:    t.CashAccountID,
		LateFeeAccountID: t.LateFeeAccountID,
		LateFeePolicy: domain.LateFeePolicy{
			GraceDays:   t.LateFeeGraceDays,
			PercentRate: t.LateFeePctRate,
			MinimumFee:  t.LateFeeMinimum,
		},
		IsActive:    t.IsActive,
		AuditFields: ToDomainAuditFields(t.AuditFields),
	}
}
