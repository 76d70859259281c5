package mapping

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	"github.com/hoaops/hoa_ledger_app/internal/models"
)

// ToModelAccount converts a domain account to its row model.
func ToModelAccount(a domain.Account) models.Account {
	return models.Account{
		AccountID:   a.AccountID,
		TenantID:    a.TenantID,
		FundID:      a.FundID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		Description: a.Description,
		IsActive:    a.IsActive,
		AuditFields: ToModelAuditFields(a.AuditFields),
	}
}

// ToDomainAccount converts an account row model to its domain form.
func ToDomainAccount(a models.Account) domain.Account {
	return domain.Account{
		AccountID:   a.AccountID,
		TenantID:    a.TenantID,
		FundID:      a.FundID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: domain.AccountType(a.AccountType),
		Description: a.Description,
		IsActive:    a.IsActive,
		AuditFields: ToDomainAuditFields(a.AuditFields),
	}
}
