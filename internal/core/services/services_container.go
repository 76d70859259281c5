package services

import (
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories. The invoice
// and payment ledgers share the journal engine's validation path through the
// account service and the package-level entry helpers.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, defaultPolicy domain.LateFeePolicy) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo, repos.FundRepo)

	return &portssvc.ServiceContainer{
		Tenant:    NewTenantService(repos.TenantRepo, repos.AccountRepo, defaultPolicy),
		Fund:      NewFundService(repos.FundRepo),
		Account:   accountSvc,
		Journal:   NewJournalService(repos.JournalRepo, accountSvc),
		Invoice:   NewInvoiceService(repos.InvoiceRepo, repos.JournalRepo, repos.TenantRepo, accountSvc),
		Payment:   NewPaymentService(repos.PaymentRepo, repos.TenantRepo, accountSvc),
		Reporting: NewReportingService(repos.ReportingRepo, repos.TenantRepo, repos.PaymentRepo),
	}
}
