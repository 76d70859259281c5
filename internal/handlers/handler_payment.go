package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// paymentCSVColumns is the expected header of an import file.
const paymentCSVColumns = "owner_id,payment_date,amount,method,reference"

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
	}
}

// registerPaymentRoutes registers payment routes on the tenant-scoped group.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.recordPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/import", h.importPayments)
	}
	rg.POST("/applications/:applicationID/reverse", h.unapplyApplication)
}

// recordPayment godoc
// @Summary Record a payment
// @Description Posts the cash entry at the full amount and allocates the payment across the owner's open invoices
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse "The recorded payment with its applications"
// @Failure 400 {object} map[string]string "Invalid request format or over-application"
// @Failure 409 {object} map[string]string "Concurrent allocation conflict"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Router /tenants/{tenantID}/payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	payment, applications, err := h.paymentService.RecordPayment(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.Int64("payment_number", payment.PaymentNumber),
		slog.Int("applications", len(applications)))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, applications))
}

// listPayments godoc
// @Summary List payments
// @Description Lists the tenant's payments newest first, with keyset pagination
// @Tags payments
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   ownerID query string false "Filter by owner"
// @Param   limit query int false "Page size (default 50)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListPaymentsResponse "A page of payments"
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Router /tenants/{tenantID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	tenantID := c.Param("tenantID")

	params := dto.ListPaymentsParams{}
	if v, found := c.GetQuery("ownerID"); found && v != "" {
		params.OwnerID = &v
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if v, found := c.GetQuery("nextToken"); found && v != "" {
		params.NextToken = &v
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getPayment godoc
// @Summary Get a payment
// @Description Retrieves a payment with its applications
// @Tags payments
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse "The payment"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment"
// @Router /tenants/{tenantID}/payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	tenantID := c.Param("tenantID")
	paymentID := c.Param("paymentID")

	payment, applications, err := h.paymentService.GetPaymentByID(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		respondError(c, err, "Failed to retrieve payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, applications))
}

// unapplyApplication godoc
// @Summary Reverse a payment application
// @Description Reverses one misallocated application, restoring the invoice balance and the payment's standing credit
// @Tags payments
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.PaymentApplicationResponse "The reversed application"
// @Failure 404 {object} map[string]string "Application not found"
// @Failure 409 {object} map[string]string "Application already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse application"
// @Router /tenants/{tenantID}/applications/{applicationID}/reverse [post]
func (h *paymentHandler) unapplyApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	applicationID := c.Param("applicationID")

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	application, err := h.paymentService.UnapplyApplication(c.Request.Context(), tenantID, applicationID, actor)
	if err != nil {
		respondError(c, err, "Failed to reverse application")
		return
	}

	logger.Info("Payment application reversed",
		slog.String("application_id", applicationID),
		slog.String("payment_id", application.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentApplicationResponse(application))
}

// importPayments godoc
// @Summary Import payments from CSV
// @Description Records a batch of payments from a CSV body (owner_id,payment_date,amount,method,reference); a failed row never aborts the batch
// @Tags payments
// @Accept  text/csv
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {object} dto.PaymentImportSummary "Per-row outcomes"
// @Failure 400 {object} map[string]string "Malformed CSV"
// @Failure 500 {object} map[string]string "Failed to import payments"
// @Router /tenants/{tenantID}/payments/import [post]
func (h *paymentHandler) importPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	rows, err := ParsePaymentCSV(c.Request.Body)
	if err != nil {
		logger.Warn("Malformed payment import CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.paymentService.ImportPayments(c.Request.Context(), tenantID, rows, actor)
	if err != nil {
		respondError(c, err, "Failed to import payments")
		return
	}

	logger.Info("Payment import completed",
		slog.Int("total", summary.Total),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}

// ParsePaymentCSV reads an import file into rows. The header row is required
// and must match paymentCSVColumns. Parse failures are structural and reject
// the whole file; business failures surface per row during recording.
func ParsePaymentCSV(r io.Reader) ([]dto.PaymentImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.Join(header, ",") != paymentCSVColumns {
		return nil, fmt.Errorf("unexpected CSV header, want %q", paymentCSVColumns)
	}

	var rows []dto.PaymentImportRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		paymentDate, err := time.Parse("2006-01-02", record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid payment_date on line %d: %w", line, err)
		}
		amount, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid amount on line %d: %w", line, err)
		}

		rows = append(rows, dto.PaymentImportRow{
			OwnerID:     record[0],
			PaymentDate: paymentDate,
			Amount:      amount,
			Method:      record[3],
			Reference:   record[4],
		})
	}
	return rows, nil
}
