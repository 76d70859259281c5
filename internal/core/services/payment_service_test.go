package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/core/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/utils/allocation"
)

// --- Test Suite ---

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockTenantRepo  *MockTenantRepository
	mockAccountSvc  *MockAccountService
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockTenantRepo, suite.mockAccountSvc)
}

func (suite *PaymentServiceTestSuite) cashEntryAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-cash": activeAccount("acc-cash", "fund-op", domain.Asset),
		"acc-ar":   activeAccount("acc-ar", "fund-op", domain.Asset),
	}
}

func openInvoice(id string, number int64, date time.Time, total, paid string) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     id,
		TenantID:      "tenant-1",
		InvoiceNumber: number,
		OwnerID:       "owner-1",
		InvoiceDate:   date,
		DueDate:       date.AddDate(0, 0, 15),
		TotalAmount:   d(total),
		AmountPaid:    d(paid),
	}
}

func paymentRequest(amount string) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		OwnerID:     "owner-1",
		PaymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      d(amount),
		Method:      "CHECK",
		Reference:   "chk-1042",
	}
}

// --- Test Cases ---

func (suite *PaymentServiceTestSuite) TestRecordPayment_FIFOSplitsAcrossInvoices() {
	ctx := context.Background()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockPaymentRepo.openInvoices = []domain.Invoice{
		openInvoice("inv-jan", 1, jan, "100", "0"),
		openInvoice("inv-feb", 2, jan.AddDate(0, 1, 0), "100", "0"),
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Once()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx,
		mock.MatchedBy(func(p domain.Payment) bool {
			return p.Amount.Equal(d("150")) && p.OwnerID == "owner-1"
		}),
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			// Cash debits and AR credits at the full receipt amount.
			return e.EntryType == domain.EntryPayment && len(e.Lines) == 2 &&
				e.Lines[0].AccountID == "acc-cash" && e.Lines[0].Debit.Equal(d("150")) &&
				e.Lines[1].AccountID == "acc-ar" && e.Lines[1].Credit.Equal(d("150"))
		}),
	).Return(nil, nil, nil).Once()

	payment, applications, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("150"), "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.True(payment.AmountApplied.Equal(d("150")))
	suite.True(payment.AmountUnapplied().IsZero())
	suite.Require().Len(applications, 2)
	suite.Equal("inv-jan", applications[0].InvoiceID)
	suite.True(applications[0].Amount.Equal(d("100")))
	suite.Equal("inv-feb", applications[1].InvoiceID)
	suite.True(applications[1].Amount.Equal(d("50")))
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_OverpaymentStaysUnapplied() {
	ctx := context.Background()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockPaymentRepo.openInvoices = []domain.Invoice{
		openInvoice("inv-jan", 1, jan, "200", "0"),
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Once()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).Return(nil, nil, nil).Once()

	payment, applications, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("300"), "admin")

	suite.Require().NoError(err)
	suite.True(payment.AmountApplied.Equal(d("200")))
	suite.True(payment.AmountUnapplied().Equal(d("100")), "the excess stays as the owner's standing credit")
	suite.Len(applications, 1)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()

	_, _, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("0"), "admin")

	suite.Require().ErrorIs(err, apperrors.ErrNonPositiveAmount)
	suite.mockTenantRepo.AssertNotCalled(suite.T(), "FindTenantByID", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_MissingControlAccounts() {
	ctx := context.Background()
	tenant := testTenant()
	tenant.CashAccountID = ""

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(tenant, nil).Once()

	_, _, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("100"), "admin")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_ManualOverApplicationRejected() {
	ctx := context.Background()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockPaymentRepo.openInvoices = []domain.Invoice{
		openInvoice("inv-jan", 1, jan, "100", "60"),
	}
	req := paymentRequest("100")
	req.ManualAllocations = []allocation.ManualSpec{
		{InvoiceID: "inv-jan", Amount: d("50")}, // only 40 is due
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Once()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).Return(nil, nil, nil).Once()

	_, _, err := suite.service.RecordPayment(ctx, "tenant-1", req, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrOverApplication)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_RetriesOnLockConflict() {
	ctx := context.Background()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockPaymentRepo.openInvoices = []domain.Invoice{
		openInvoice("inv-jan", 1, jan, "100", "0"),
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Twice()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrConcurrentModification).Once()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).
		Return(nil, nil, nil).Once()

	payment, applications, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("100"), "admin")

	suite.Require().NoError(err)
	suite.True(payment.AmountApplied.Equal(d("100")))
	suite.Len(applications, 1)
	suite.mockPaymentRepo.AssertNumberOfCalls(suite.T(), "SavePaymentWithApplications", 2)
}

func (suite *PaymentServiceTestSuite) TestRecordPayment_GivesUpAfterBoundedRetries() {
	ctx := context.Background()

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Times(3)
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrConcurrentModification).Times(3)

	_, _, err := suite.service.RecordPayment(ctx, "tenant-1", paymentRequest("100"), "admin")

	suite.Require().ErrorIs(err, apperrors.ErrConcurrentModification)
	suite.mockPaymentRepo.AssertNumberOfCalls(suite.T(), "SavePaymentWithApplications", 3)
}

func (suite *PaymentServiceTestSuite) TestUnapplyApplication_Success() {
	ctx := context.Background()
	applicationID := uuid.NewString()
	now := time.Now().UTC()
	reversed := &domain.PaymentApplication{
		ApplicationID: applicationID,
		TenantID:      "tenant-1",
		PaymentID:     uuid.NewString(),
		InvoiceID:     uuid.NewString(),
		Amount:        d("100"),
		ReversedAt:    &now,
	}

	suite.mockPaymentRepo.On("ReverseApplication", ctx, "tenant-1", applicationID, "admin", mock.Anything).
		Return(reversed, nil).Once()

	result, err := suite.service.UnapplyApplication(ctx, "tenant-1", applicationID, "admin")

	suite.Require().NoError(err)
	suite.NotNil(result.ReversedAt)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestUnapplyApplication_AlreadyReversed() {
	ctx := context.Background()
	applicationID := uuid.NewString()

	suite.mockPaymentRepo.On("ReverseApplication", ctx, "tenant-1", applicationID, "admin", mock.Anything).
		Return(nil, apperrors.ErrAlreadyReversed).Once()

	_, err := suite.service.UnapplyApplication(ctx, "tenant-1", applicationID, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyReversed)
}

func (suite *PaymentServiceTestSuite) TestImportPayments_FailedRowNeverAbortsBatch() {
	ctx := context.Background()
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockPaymentRepo.openInvoices = []domain.Invoice{
		openInvoice("inv-jan", 1, jan, "100", "0"),
	}
	rows := []dto.PaymentImportRow{
		{OwnerID: "owner-1", PaymentDate: jan.AddDate(0, 2, 0), Amount: d("100"), Method: "CHECK"},
		{OwnerID: "owner-2", PaymentDate: jan.AddDate(0, 2, 0), Amount: decimal.Zero, Method: "ACH"},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.cashEntryAccounts(), nil).Once()
	suite.mockPaymentRepo.On("SavePaymentWithApplications", ctx, mock.Anything, mock.Anything).Return(nil, nil, nil).Once()

	summary, err := suite.service.ImportPayments(ctx, "tenant-1", rows, "importer")

	suite.Require().NoError(err)
	suite.Equal(2, summary.Total)
	suite.Equal(1, summary.Succeeded)
	suite.Equal(1, summary.Failed)
	suite.Require().Len(summary.Results, 2)
	suite.NotEmpty(summary.Results[0].PaymentID)
	suite.Require().NotNil(summary.Results[1].Error)
	suite.Contains(*summary.Results[1].Error, "amount")
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
