package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelFund converts a domain fund to its row model.
func ToModelFund(f domain.Fund) models.Fund {
	return models.Fund{
		FundID:      f.FundID,
		TenantID:    f.TenantID,
		Name:        f.Name,
		FundType:    string(f.FundType),
		IsActive:    f.IsActive,
		AuditFields: ToModelAuditFields(f.AuditFields),
	}
}

// ToDomainFund converts a fund row model to its domain form.
func ToDomainFund(f models.Fund) domain.Fund {
	return domain.Fund{
		FundID:      f.FundID,
		TenantID:    f.TenantID,
		Name:        f.Name,
		FundType:    domain.FundType(f.FundType),
		IsActive:    f.IsActive,
		AuditFields: ToDomainAuditFields(f.AuditFields),
	}
}
