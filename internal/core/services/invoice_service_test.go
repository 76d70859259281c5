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
)

func testTenant() *domain.Tenant {
	return &domain.Tenant{
		TenantID:         "tenant-1",
		Name:             "Oakwood HOA",
		ARAccountID:      "acc-ar",
		CashAccountID:    "acc-cash",
		LateFeeAccountID: "acc-latefee",
		LateFeePolicy: domain.LateFeePolicy{
			GraceDays:   10,
			PercentRate: d("0.05"),
			MinimumFee:  d("25.00"),
		},
		IsActive: true,
	}
}

// --- Test Suite ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockJournalRepo *MockJournalRepository
	mockTenantRepo  *MockTenantRepository
	mockAccountSvc  *MockAccountService
	service         portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockJournalRepo, suite.mockTenantRepo, suite.mockAccountSvc)
}

func (suite *InvoiceServiceTestSuite) issuanceAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-ar":      activeAccount("acc-ar", "fund-op", domain.Asset),
		"acc-dues":    activeAccount("acc-dues", "fund-op", domain.Revenue),
		"acc-parking": activeAccount("acc-parking", "fund-op", domain.Revenue),
		"acc-latefee": activeAccount("acc-latefee", "fund-op", domain.Revenue),
	}
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_Success() {
	ctx := context.Background()
	req := dto.IssueInvoiceRequest{
		OwnerID:     "owner-1",
		UnitID:      "unit-12",
		InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.InvoiceLineRequest{
			{RevenueAccountID: "acc-dues", Description: "Monthly dues", Amount: d("100")},
			{RevenueAccountID: "acc-parking", Description: "Parking", Amount: d("50")},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.issuanceAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoiceWithEntry", ctx,
		mock.MatchedBy(func(inv domain.Invoice) bool {
			return inv.TotalAmount.Equal(d("150")) && inv.AmountPaid.IsZero() && len(inv.Lines) == 2
		}),
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			if e.EntryType != domain.EntryInvoice || len(e.Lines) != 3 {
				return false
			}
			// One AR debit at the total, one revenue credit per invoice line.
			last := e.Lines[2]
			return last.AccountID == "acc-ar" && last.Debit.Equal(d("150")) &&
				e.Lines[0].Credit.Equal(d("100")) && e.Lines[1].Credit.Equal(d("50"))
		}),
	).Return(nil, nil, nil).Once()

	invoice, err := suite.service.IssueInvoice(ctx, "tenant-1", req, "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal(int64(1), invoice.InvoiceNumber)
	suite.True(invoice.AmountDue().Equal(d("150")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_EmptyLines() {
	ctx := context.Background()
	req := dto.IssueInvoiceRequest{
		OwnerID:     "owner-1",
		UnitID:      "unit-12",
		InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.IssueInvoice(ctx, "tenant-1", req, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrEmptyInvoice)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoiceWithEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NonPositiveLine() {
	ctx := context.Background()
	req := dto.IssueInvoiceRequest{
		OwnerID:     "owner-1",
		UnitID:      "unit-12",
		InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.InvoiceLineRequest{
			{RevenueAccountID: "acc-dues", Description: "Monthly dues", Amount: decimal.Zero},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()

	_, err := suite.service.IssueInvoice(ctx, "tenant-1", req, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrNonPositiveAmount)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_DueBeforeInvoiceDate() {
	ctx := context.Background()
	req := dto.IssueInvoiceRequest{
		OwnerID:     "owner-1",
		UnitID:      "unit-12",
		InvoiceDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.InvoiceLineRequest{
			{RevenueAccountID: "acc-dues", Description: "Monthly dues", Amount: d("100")},
		},
	}

	_, err := suite.service.IssueInvoice(ctx, "tenant-1", req, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_MissingControlAccounts() {
	ctx := context.Background()
	tenant := testTenant()
	tenant.ARAccountID = ""
	req := dto.IssueInvoiceRequest{
		OwnerID:     "owner-1",
		UnitID:      "unit-12",
		InvoiceDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.InvoiceLineRequest{
			{RevenueAccountID: "acc-dues", Description: "Monthly dues", Amount: d("100")},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(tenant, nil).Once()

	_, err := suite.service.IssueInvoice(ctx, "tenant-1", req, "admin")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_Success() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	entryID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		TenantID:      "tenant-1",
		InvoiceNumber: 3,
		TotalAmount:   d("150"),
		AmountPaid:    decimal.Zero,
		EntryID:       entryID,
	}
	entry := &domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    "tenant-1",
		EntryNumber: 9,
		EntryType:   domain.EntryInvoice,
	}
	lines := []domain.JournalLine{
		{LineID: "l1", EntryID: entryID, AccountID: "acc-ar", Debit: d("150"), Credit: decimal.Zero},
		{LineID: "l2", EntryID: entryID, AccountID: "acc-dues", Debit: decimal.Zero, Credit: d("150")},
	}
	voided := *invoice
	voided.IsVoid = true

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, "tenant-1", entryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()
	suite.mockInvoiceRepo.On("VoidInvoice", ctx, "tenant-1", invoiceID,
		mock.MatchedBy(func(reversals []domain.JournalEntry) bool {
			return len(reversals) == 1 &&
				reversals[0].EntryType == domain.EntryReversal &&
				*reversals[0].ReversesEntryID == entryID
		}),
		"admin", mock.Anything).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(&voided, nil).Once()

	result, err := suite.service.VoidInvoice(ctx, "tenant-1", invoiceID, "issued in error", "admin")

	suite.Require().NoError(err)
	suite.True(result.IsVoid)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_AlreadyVoid() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		TenantID:    "tenant-1",
		TotalAmount: d("150"),
		AmountPaid:  decimal.Zero,
		IsVoid:      true,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.VoidInvoice(ctx, "tenant-1", invoiceID, "again", "admin")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_PaymentsApplied() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:   invoiceID,
		TenantID:    "tenant-1",
		TotalAmount: d("150"),
		AmountPaid:  d("50"),
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.VoidInvoice(ctx, "tenant-1", invoiceID, "too late", "admin")

	suite.Require().ErrorIs(err, apperrors.ErrInvoiceAlreadyPaid)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "VoidInvoice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) overdueInvoice(invoiceID string, dueDate time.Time) *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:   invoiceID,
		TenantID:    "tenant-1",
		OwnerID:     "owner-1",
		DueDate:     dueDate,
		TotalAmount: d("100"),
		AmountPaid:  decimal.Zero,
		EntryID:     uuid.NewString(),
	}
}

func (suite *InvoiceServiceTestSuite) TestApplyLateFee_WithinGracePeriod() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := dueDate.AddDate(0, 0, 4) // 4 days overdue, grace is 10

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(suite.overdueInvoice(invoiceID, dueDate), nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()

	result, err := suite.service.ApplyLateFee(ctx, "tenant-1", invoiceID, asOf, "admin")

	suite.Require().NoError(err)
	suite.False(result.Applied)
	suite.Equal("within grace period", result.Reason)
	suite.True(result.Fee.IsZero())
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveLateFee",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestApplyLateFee_AtGraceBoundary() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := dueDate.AddDate(0, 0, 10) // exactly graceDays overdue

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(suite.overdueInvoice(invoiceID, dueDate), nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.issuanceAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("SaveLateFee", ctx, "tenant-1", invoiceID,
		mock.Anything, mock.Anything, "admin", mock.Anything).Return(nil, nil).Once()

	result, err := suite.service.ApplyLateFee(ctx, "tenant-1", invoiceID, asOf, "admin")

	suite.Require().NoError(err)
	suite.True(result.Applied, "the fee applies the day the grace period ends")
	suite.True(result.Fee.Equal(d("25.00")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestApplyLateFee_BeyondGrace() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := dueDate.AddDate(0, 0, 15)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(suite.overdueInvoice(invoiceID, dueDate), nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.issuanceAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("SaveLateFee", ctx, "tenant-1", invoiceID,
		mock.MatchedBy(func(line domain.InvoiceLine) bool {
			return line.IsLateFee && line.Amount.Equal(d("25.00"))
		}),
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.EntryType == domain.EntryLateFee && len(e.Lines) == 2
		}),
		"admin", mock.Anything).Return(nil, nil).Once()

	result, err := suite.service.ApplyLateFee(ctx, "tenant-1", invoiceID, asOf, "admin")

	suite.Require().NoError(err)
	suite.True(result.Applied)
	// 5% of 100 is below the 25.00 minimum, so the floor applies.
	suite.True(result.Fee.Equal(d("25.00")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestApplyLateFee_AlreadyApplied() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	invoice := suite.overdueInvoice(invoiceID, dueDate)
	feeEntryID := uuid.NewString()
	invoice.LateFeeEntryID = &feeEntryID

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(invoice, nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()

	result, err := suite.service.ApplyLateFee(ctx, "tenant-1", invoiceID, dueDate.AddDate(0, 0, 30), "admin")

	suite.Require().NoError(err)
	suite.False(result.Applied)
	suite.Equal("late fee already applied", result.Reason)
}

func (suite *InvoiceServiceTestSuite) TestApplyLateFee_ConcurrentRunLosesGracefully() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, "tenant-1", invoiceID).Return(suite.overdueInvoice(invoiceID, dueDate), nil).Once()
	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, "tenant-1", mock.Anything).Return(suite.issuanceAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("SaveLateFee", ctx, "tenant-1", invoiceID,
		mock.Anything, mock.Anything, "admin", mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	result, err := suite.service.ApplyLateFee(ctx, "tenant-1", invoiceID, dueDate.AddDate(0, 0, 15), "admin")

	suite.Require().NoError(err, "losing the race to a concurrent run is not an error")
	suite.False(result.Applied)
	suite.Equal("late fee already applied", result.Reason)
}

func (suite *InvoiceServiceTestSuite) TestRunLateFees_DryRun() {
	ctx := context.Background()
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	asOf := dueDate.AddDate(0, 0, 15)
	beyondGrace := suite.overdueInvoice(uuid.NewString(), dueDate)
	withinGrace := suite.overdueInvoice(uuid.NewString(), asOf.AddDate(0, 0, -4))

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockInvoiceRepo.On("ListOverdueInvoices", ctx, "tenant-1", asOf).
		Return([]domain.Invoice{*beyondGrace, *withinGrace}, nil).Once()

	summary, err := suite.service.RunLateFees(ctx, "tenant-1", asOf, true, "admin")

	suite.Require().NoError(err)
	suite.True(summary.DryRun)
	suite.Equal(1, summary.Applied)
	suite.Equal(1, summary.Skipped)
	suite.Equal(0, summary.Failed)
	suite.Len(summary.Results, 2)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveLateFee",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
