package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoaops/hoa_ledger_app/internal/apperrors"
	"github.com/hoaops/hoa_ledger_app/internal/core/domain"
	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// --- Mock PaymentService ---

type MockPaymentService struct {
	mock.Mock
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

func (m *MockPaymentService) RecordPayment(ctx context.Context, tenantID string, req dto.RecordPaymentRequest, actor string) (*domain.Payment, []domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, req, actor)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var applications []domain.PaymentApplication
	if args.Get(1) != nil {
		applications = args.Get(1).([]domain.PaymentApplication)
	}
	return args.Get(0).(*domain.Payment), applications, args.Error(2)
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, []domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var applications []domain.PaymentApplication
	if args.Get(1) != nil {
		applications = args.Get(1).([]domain.PaymentApplication)
	}
	return args.Get(0).(*domain.Payment), applications, args.Error(2)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, tenantID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}

func (m *MockPaymentService) UnapplyApplication(ctx context.Context, tenantID, applicationID, actor string) (*domain.PaymentApplication, error) {
	args := m.Called(ctx, tenantID, applicationID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentApplication), args.Error(1)
}

func (m *MockPaymentService) ImportPayments(ctx context.Context, tenantID string, rows []dto.PaymentImportRow, actor string) (*dto.PaymentImportSummary, error) {
	args := m.Called(ctx, tenantID, rows, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentImportSummary), args.Error(1)
}

// --- Test Suite ---

type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPaymentService = new(MockPaymentService)

	tenant := suite.router.Group("/api/v1/tenants/:tenantID")
	registerPaymentRoutes(tenant, suite.mockPaymentService)
}

// generateTestToken creates a signed token covering the given tenants.
func (suite *PaymentHandlerTestSuite) generateTestToken(actor string, tenants []string) string {
	claims := jwt.MapClaims{
		"sub":     actor,
		"tenants": tenants,
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
		"iat":     jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Success() {
	tenantID := uuid.NewString()
	actor := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:     uuid.NewString(),
		TenantID:      tenantID,
		PaymentNumber: 1,
		OwnerID:       "owner-1",
		PaymentDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Method:        "CHECK",
		Amount:        decimal.RequireFromString("150"),
		AmountApplied: decimal.RequireFromString("150"),
	}
	applications := []domain.PaymentApplication{
		{ApplicationID: uuid.NewString(), PaymentID: payment.PaymentID, InvoiceID: uuid.NewString(), Amount: decimal.RequireFromString("150")},
	}

	suite.mockPaymentService.On("RecordPayment",
		mock.Anything, tenantID,
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.OwnerID == "owner-1" && req.Amount.Equal(decimal.RequireFromString("150"))
		}),
		actor,
	).Return(payment, applications, nil).Once()

	body := `{"ownerID":"owner-1","paymentDate":"2026-03-10T00:00:00Z","amount":"150","method":"CHECK"}`
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/payments", tenantID), strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor, []string{tenantID}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(payment.PaymentID, resp.PaymentID)
	suite.Len(resp.Applications, 1)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_OverApplicationIsBadRequest() {
	tenantID := uuid.NewString()
	actor := uuid.NewString()

	suite.mockPaymentService.On("RecordPayment", mock.Anything, tenantID, mock.Anything, actor).
		Return(nil, nil, fmt.Errorf("%w: invoice inv-1", apperrors.ErrOverApplication)).Once()

	body := `{"ownerID":"owner-1","paymentDate":"2026-03-10T00:00:00Z","amount":"150","method":"CHECK"}`
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/payments", tenantID), strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor, []string{tenantID}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_TokenForOtherTenantIsForbidden() {
	tenantID := uuid.NewString()
	actor := uuid.NewString()

	body := `{"ownerID":"owner-1","paymentDate":"2026-03-10T00:00:00Z","amount":"150","method":"CHECK"}`
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/payments", tenantID), strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor, []string{uuid.NewString()}))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_MissingTokenIsUnauthorized() {
	tenantID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/payments", tenantID), strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestUnapplyApplication_AlreadyReversedIsConflict() {
	tenantID := uuid.NewString()
	applicationID := uuid.NewString()
	actor := uuid.NewString()

	suite.mockPaymentService.On("UnapplyApplication", mock.Anything, tenantID, applicationID, actor).
		Return(nil, apperrors.ErrAlreadyReversed).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/applications/%s/reverse", tenantID, applicationID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor, []string{"*"}))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestImportPayments_MalformedCSVIsBadRequest() {
	tenantID := uuid.NewString()
	actor := uuid.NewString()

	body := "wrong,header,entirely\nowner-1,2026-03-10,100,CHECK,ref"
	url := fmt.Sprintf("/api/v1/tenants/%s/payments/import", tenantID)
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actor, []string{tenantID}))
	req.Header.Set("Content-Type", "text/csv")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ImportPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// --- CSV parsing ---

func TestParsePaymentCSV(t *testing.T) {
	input := "owner_id,payment_date,amount,method,reference\n" +
		"owner-1,2026-03-10,150.00,CHECK,chk-1042\n" +
		"owner-2,2026-03-11,75.50,ACH,\n"

	rows, err := ParsePaymentCSV(strings.NewReader(input))

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "owner-1", rows[0].OwnerID)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), rows[0].PaymentDate)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, "CHECK", rows[0].Method)
	assert.Equal(t, "chk-1042", rows[0].Reference)
	assert.Equal(t, "ACH", rows[1].Method)
}

func TestParsePaymentCSV_WrongHeader(t *testing.T) {
	input := "owner,date,amt,method,ref\nowner-1,2026-03-10,150.00,CHECK,x\n"

	_, err := ParsePaymentCSV(strings.NewReader(input))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected CSV header")
}

func TestParsePaymentCSV_BadAmount(t *testing.T) {
	input := "owner_id,payment_date,amount,method,reference\n" +
		"owner-1,2026-03-10,not-a-number,CHECK,x\n"

	_, err := ParsePaymentCSV(strings.NewReader(input))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount on line 2")
}

func TestParsePaymentCSV_BadDate(t *testing.T) {
	input := "owner_id,payment_date,amount,method,reference\n" +
		"owner-1,03/10/2026,150.00,CHECK,x\n"

	_, err := ParsePaymentCSV(strings.NewReader(input))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment_date on line 2")
}
