package services_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portsrepo "github.com/hoaops/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

// SaveEntry echoes the prepared entry back with a number stamped, the way the
// real repository does, when the expectation returns (nil, nil).
func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		saved := entry
		saved.EntryNumber = 1
		return &saved, nil
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveEntryPair(ctx context.Context, first, second domain.JournalEntry) (*domain.JournalEntry, *domain.JournalEntry, error) {
	args := m.Called(ctx, first, second)
	if args.Error(2) != nil {
		return nil, nil, args.Error(2)
	}
	savedFirst, savedSecond := first, second
	savedFirst.EntryNumber = 1
	savedSecond.EntryNumber = 2
	return &savedFirst, &savedSecond, nil
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, originalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, reversal, originalEntryID)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		saved := reversal
		saved.EntryNumber = 2
		return &saved, nil
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByReference(ctx context.Context, tenantID, referenceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, fundID *string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountID, actor string) error {
	args := m.Called(ctx, tenantID, accountID, actor)
	return args.Error(0)
}

// --- Mock TenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

var _ portsrepo.TenantRepositoryFacade = (*MockTenantRepository)(nil)

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateTenantSettings(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, ownerID *string, openOnly bool, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, tenantID, ownerID, openOnly, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) ListOverdueInvoices(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// SaveInvoiceWithEntry echoes its inputs with numbers stamped when the
// expectation returns no explicit invoice.
func (m *MockInvoiceRepository) SaveInvoiceWithEntry(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry) (*domain.Invoice, *domain.JournalEntry, error) {
	args := m.Called(ctx, invoice, entry)
	if args.Error(2) != nil {
		return nil, nil, args.Error(2)
	}
	savedInvoice, savedEntry := invoice, entry
	savedInvoice.InvoiceNumber = 1
	savedEntry.EntryNumber = 1
	return &savedInvoice, &savedEntry, nil
}

func (m *MockInvoiceRepository) VoidInvoice(ctx context.Context, tenantID, invoiceID string, reversals []domain.JournalEntry, actor string, now time.Time) error {
	args := m.Called(ctx, tenantID, invoiceID, reversals, actor, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveLateFee(ctx context.Context, tenantID, invoiceID string, feeLine domain.InvoiceLine, entry domain.JournalEntry, actor string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, invoiceID, feeLine, entry, actor, now)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		saved := entry
		saved.EntryNumber = 2
		return &saved, nil
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock PaymentRepository ---

// MockPaymentRepository holds the owner's open invoices so the save method
// can run the injected allocator exactly like the real repository does
// inside its locking transaction.
type MockPaymentRepository struct {
	mock.Mock
	openInvoices []domain.Invoice
}

var _ portsrepo.PaymentRepositoryFacade = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) SavePaymentWithApplications(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, allocate portsrepo.AllocatorFunc) (*domain.Payment, []domain.PaymentApplication, error) {
	args := m.Called(ctx, payment, entry)
	if args.Error(2) != nil {
		return nil, nil, args.Error(2)
	}

	allocations, remainder, err := allocate(m.openInvoices)
	if err != nil {
		return nil, nil, err
	}

	saved := payment
	saved.PaymentNumber = 1
	saved.AmountApplied = payment.Amount.Sub(remainder)
	applications := make([]domain.PaymentApplication, len(allocations))
	for i, a := range allocations {
		applications[i] = domain.PaymentApplication{
			ApplicationID: uuid.NewString(),
			TenantID:      payment.TenantID,
			PaymentID:     payment.PaymentID,
			InvoiceID:     a.InvoiceID,
			Amount:        a.Amount,
			AppliedAt:     payment.CreatedAt,
			AppliedBy:     payment.CreatedBy,
		}
	}
	return &saved, applications, nil
}

func (m *MockPaymentRepository) ReverseApplication(ctx context.Context, tenantID, applicationID, actor string, now time.Time) (*domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, applicationID, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentApplication), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, tenantID string, ownerID *string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, tenantID, ownerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Payment), returnedNextToken, args.Error(2)
}

func (m *MockPaymentRepository) FindApplicationByID(ctx context.Context, tenantID, applicationID string) (*domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentApplication), args.Error(1)
}

func (m *MockPaymentRepository) ListApplicationsByPayment(ctx context.Context, tenantID, paymentID string) ([]domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentApplication), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByOwner(ctx context.Context, tenantID, ownerID string) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceRows(ctx context.Context, tenantID string, fundID *string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, fundID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) ListOpenInvoicesAsOf(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockReportingRepository) GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) ListOwnerInvoiceActivity(ctx context.Context, tenantID, ownerID string) ([]domain.OwnerInvoiceActivity, error) {
	args := m.Called(ctx, tenantID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnerInvoiceActivity), args.Error(1)
}
