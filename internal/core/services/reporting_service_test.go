package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/core/services"
)

// --- Test Suite ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockTenantRepo    *MockTenantRepository
	mockPaymentRepo   *MockPaymentRepository
	service           portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockTenantRepo, suite.mockPaymentRepo)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_SignsByNormalBalance() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{AccountID: "acc-ar", AccountName: "Accounts Receivable", AccountType: domain.Asset, FundID: "fund-op", Debit: d("150"), Credit: decimal.Zero},
		{AccountID: "acc-dues", AccountName: "Dues Revenue", AccountType: domain.Revenue, FundID: "fund-op", Debit: decimal.Zero, Credit: d("150")},
	}

	suite.mockReportingRepo.On("GetTrialBalanceRows", ctx, "tenant-1", (*string)(nil), asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, "tenant-1", nil, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	// Both healthy balances read positive: the asset on its debit side, the
	// revenue on its credit side.
	suite.True(report.Rows[0].Balance.Equal(d("150")))
	suite.True(report.Rows[1].Balance.Equal(d("150")))
	suite.True(report.TotalDebits.Equal(report.TotalCredits))
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestARAging_BucketsByDaysOverdue() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	invoices := []domain.Invoice{
		// Due exactly asOf is current, not overdue.
		{InvoiceID: "inv-1", OwnerID: "owner-b", DueDate: asOf, TotalAmount: d("100"), AmountPaid: decimal.Zero},
		{InvoiceID: "inv-2", OwnerID: "owner-b", DueDate: asOf.AddDate(0, 0, -31), TotalAmount: d("200"), AmountPaid: d("50")},
		{InvoiceID: "inv-3", OwnerID: "owner-a", DueDate: asOf.AddDate(0, 0, -100), TotalAmount: d("75"), AmountPaid: decimal.Zero},
		// Fully settled invoices never show in aging.
		{InvoiceID: "inv-4", OwnerID: "owner-a", DueDate: asOf.AddDate(0, 0, -100), TotalAmount: d("60"), AmountPaid: d("60")},
	}

	suite.mockReportingRepo.On("ListOpenInvoicesAsOf", ctx, "tenant-1", asOf).Return(invoices, nil).Once()

	report, err := suite.service.ARAging(ctx, "tenant-1", asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	suite.Equal("owner-a", report.Rows[0].OwnerID, "rows are sorted by owner")
	suite.Equal("owner-b", report.Rows[1].OwnerID)

	suite.True(report.Rows[0].Buckets[domain.BucketOver90].Equal(d("75")))
	suite.True(report.Rows[1].Buckets[domain.BucketCurrent].Equal(d("100")))
	suite.True(report.Rows[1].Buckets[domain.Bucket31To60].Equal(d("150")), "open balance, not face value, is bucketed")

	suite.True(report.Totals[domain.BucketCurrent].Equal(d("100")))
	suite.True(report.Totals[domain.Bucket31To60].Equal(d("150")))
	suite.True(report.Totals[domain.BucketOver90].Equal(d("75")))
	suite.True(report.Total.Equal(d("325")))
}

func (suite *ReportingServiceTestSuite) TestOwnerLedger_ChronologicalWithRunningBalance() {
	ctx := context.Background()
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	activity := []domain.OwnerInvoiceActivity{
		{Invoice: domain.Invoice{InvoiceID: "inv-1", InvoiceNumber: 1, OwnerID: "owner-1", UnitID: "unit-12", InvoiceDate: mar1, TotalAmount: d("100")}, LateFee: decimal.Zero},
		{Invoice: domain.Invoice{InvoiceID: "inv-void", InvoiceNumber: 2, OwnerID: "owner-1", UnitID: "unit-12", InvoiceDate: mar1.AddDate(0, 0, 5), TotalAmount: d("999"), IsVoid: true}, LateFee: decimal.Zero},
		{Invoice: domain.Invoice{InvoiceID: "inv-3", InvoiceNumber: 3, OwnerID: "owner-1", UnitID: "unit-12", InvoiceDate: mar1.AddDate(0, 1, 0), TotalAmount: d("50")}, LateFee: decimal.Zero},
	}
	payments := []domain.Payment{
		{PaymentID: "pay-1", PaymentNumber: 1, OwnerID: "owner-1", PaymentDate: mar1, Method: "CHECK", Amount: d("40")},
	}

	suite.mockReportingRepo.On("ListOwnerInvoiceActivity", ctx, "tenant-1", "owner-1").Return(activity, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByOwner", ctx, "tenant-1", "owner-1").Return(payments, nil).Once()

	ledger, err := suite.service.OwnerLedger(ctx, "tenant-1", "owner-1")

	suite.Require().NoError(err)
	suite.Require().Len(ledger.Lines, 3, "void invoices are excluded")

	// Same-day activity shows the charge before the payment covering it.
	suite.Equal("INVOICE", ledger.Lines[0].Kind)
	suite.True(ledger.Lines[0].Balance.Equal(d("100")))
	suite.Equal("PAYMENT", ledger.Lines[1].Kind)
	suite.True(ledger.Lines[1].Balance.Equal(d("60")))
	suite.Equal("INVOICE", ledger.Lines[2].Kind)
	suite.True(ledger.Lines[2].Balance.Equal(d("110")))
	suite.True(ledger.Balance.Equal(d("110")))
}

func (suite *ReportingServiceTestSuite) TestOwnerLedger_LateFeeChargedOnAssessmentDate() {
	ctx := context.Background()
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mar20 := mar1.AddDate(0, 0, 19)
	// Invoice issued at 100; a 25.00 fee assessed on the 20th brings its
	// total to 125.
	activity := []domain.OwnerInvoiceActivity{
		{
			Invoice:     domain.Invoice{InvoiceID: "inv-1", InvoiceNumber: 1, OwnerID: "owner-1", UnitID: "unit-12", InvoiceDate: mar1, TotalAmount: d("125")},
			LateFee:     d("25.00"),
			LateFeeDate: &mar20,
		},
	}
	payments := []domain.Payment{
		{PaymentID: "pay-1", PaymentNumber: 1, OwnerID: "owner-1", PaymentDate: mar1.AddDate(0, 0, 9), Method: "ACH", Amount: d("100")},
	}

	suite.mockReportingRepo.On("ListOwnerInvoiceActivity", ctx, "tenant-1", "owner-1").Return(activity, nil).Once()
	suite.mockPaymentRepo.On("ListPaymentsByOwner", ctx, "tenant-1", "owner-1").Return(payments, nil).Once()

	ledger, err := suite.service.OwnerLedger(ctx, "tenant-1", "owner-1")

	suite.Require().NoError(err)
	suite.Require().Len(ledger.Lines, 3, "the fee is its own line, not part of the original charge")

	suite.Equal("INVOICE", ledger.Lines[0].Kind)
	suite.True(ledger.Lines[0].Charge.Equal(d("100")), "the original charge excludes the later fee")
	suite.True(ledger.Lines[0].Balance.Equal(d("100")))

	// The balance between the payment and the fee reflects the books on
	// those days, not the fee assessed later.
	suite.Equal("PAYMENT", ledger.Lines[1].Kind)
	suite.True(ledger.Lines[1].Balance.IsZero())

	suite.Equal("LATE_FEE", ledger.Lines[2].Kind)
	suite.True(ledger.Lines[2].Date.Equal(mar20))
	suite.True(ledger.Lines[2].Charge.Equal(d("25.00")))
	suite.True(ledger.Lines[2].Balance.Equal(d("25.00")))
	suite.True(ledger.Balance.Equal(d("25.00")))
}

func (suite *ReportingServiceTestSuite) TestReconcileAR_Balanced() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	invoices := []domain.Invoice{
		{InvoiceID: "inv-1", TotalAmount: d("100"), AmountPaid: decimal.Zero},
		{InvoiceID: "inv-2", TotalAmount: d("200"), AmountPaid: d("50")},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockReportingRepo.On("ListOpenInvoicesAsOf", ctx, "tenant-1", asOf).Return(invoices, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalance", ctx, "tenant-1", "acc-ar", asOf).Return(d("250"), nil).Once()

	recon, err := suite.service.ReconcileAR(ctx, "tenant-1", asOf)

	suite.Require().NoError(err)
	suite.True(recon.Balanced)
	suite.True(recon.InvoiceTotal.Equal(d("250")))
	suite.True(recon.ARAccountTotal.Equal(d("250")))
	suite.True(recon.Variance.IsZero())
}

func (suite *ReportingServiceTestSuite) TestReconcileAR_VarianceDetected() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	invoices := []domain.Invoice{
		{InvoiceID: "inv-1", TotalAmount: d("250"), AmountPaid: decimal.Zero},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, "tenant-1").Return(testTenant(), nil).Once()
	suite.mockReportingRepo.On("ListOpenInvoicesAsOf", ctx, "tenant-1", asOf).Return(invoices, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalance", ctx, "tenant-1", "acc-ar", asOf).Return(d("240"), nil).Once()

	recon, err := suite.service.ReconcileAR(ctx, "tenant-1", asOf)

	suite.Require().NoError(err)
	suite.False(recon.Balanced)
	suite.True(recon.Variance.Equal(d("10")), "sub-ledger exceeds the control account by 10")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
