package services

// ServiceContainer holds all service interfaces for dependency injection
// into handlers, the scheduler, and the batch CLIs.
type ServiceContainer struct {
	Tenant    TenantSvcFacade
	Fund      FundSvcFacade
	Account   AccountSvcFacade
	Journal   JournalSvcFacade
	Invoice   InvoiceSvcFacade
	Payment   PaymentSvcFacade
	Reporting ReportingSvcFacade
}
