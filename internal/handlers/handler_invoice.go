package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
	}
}

// registerInvoiceRoutes registers invoice routes on the tenant-scoped group.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.issueInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/void", h.voidInvoice)
		invoices.POST("/:invoiceID/late-fee", h.applyLateFee)
	}
	rg.POST("/late-fees/run", h.runLateFees)
}

// parseAsOf reads an optional asOf date query parameter, defaulting to today.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	v := c.Query("asOf")
	if v == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}

// issueInvoice godoc
// @Summary Issue an invoice
// @Description Totals the lines and atomically posts the receivable entry together with the invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   invoice body dto.IssueInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse "The issued invoice"
// @Failure 400 {object} map[string]string "Invalid request format or lines"
// @Failure 500 {object} map[string]string "Failed to issue invoice"
// @Router /tenants/{tenantID}/invoices [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for issueInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to issue invoice")
		return
	}

	logger.Info("Invoice issued",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.Int64("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists the tenant's invoices newest first, with keyset pagination
// @Tags invoices
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   ownerID query string false "Filter by owner"
// @Param   openOnly query bool false "Only invoices with a remaining balance"
// @Param   limit query int false "Page size (default 50)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse "A page of invoices"
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Router /tenants/{tenantID}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	tenantID := c.Param("tenantID")

	params := dto.ListInvoicesParams{}
	if v, found := c.GetQuery("ownerID"); found && v != "" {
		params.OwnerID = &v
	}
	params.OpenOnly = c.Query("openOnly") == "true"
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

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Retrieves an invoice with its lines; status and amount due are derived at read time
// @Tags invoices
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse "The invoice"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Router /tenants/{tenantID}/invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	tenantID := c.Param("tenantID")
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// voidInvoice godoc
// @Summary Void an invoice
// @Description Reverses the invoice's entries and flags it void; only permitted while nothing has been paid
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   invoiceID path string true "Invoice ID"
// @Param   void body dto.VoidInvoiceRequest true "Void reason"
// @Success 200 {object} dto.InvoiceResponse "The voided invoice"
// @Failure 400 {object} map[string]string "Invalid request format or invoice already void"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice has payments applied"
// @Failure 500 {object} map[string]string "Failed to void invoice"
// @Router /tenants/{tenantID}/invoices/{invoiceID}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	invoiceID := c.Param("invoiceID")

	var req dto.VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for voidInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), tenantID, invoiceID, req.Reason, actor)
	if err != nil {
		respondError(c, err, "Failed to void invoice")
		return
	}

	logger.Info("Invoice voided", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// applyLateFee godoc
// @Summary Apply a late fee to one invoice
// @Description Applies the tenant's late-fee policy; inside the grace window or when already applied the result reports a no-op
// @Tags invoices
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   invoiceID path string true "Invoice ID"
// @Param   asOf query string false "Assessment date (YYYY-MM-DD, default today)"
// @Success 200 {object} dto.LateFeeResult "The late-fee outcome"
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to apply late fee"
// @Router /tenants/{tenantID}/invoices/{invoiceID}/late-fee [post]
func (h *invoiceHandler) applyLateFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	invoiceID := c.Param("invoiceID")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ApplyLateFee(c.Request.Context(), tenantID, invoiceID, asOf, actor)
	if err != nil {
		respondError(c, err, "Failed to apply late fee")
		return
	}

	logger.Info("Late fee check completed",
		slog.String("invoice_id", invoiceID),
		slog.Bool("applied", result.Applied))
	c.JSON(http.StatusOK, result)
}

// runLateFees godoc
// @Summary Run late fees across all overdue invoices
// @Description Applies the late-fee policy to every eligible overdue invoice, reporting per-invoice outcomes
// @Tags invoices
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   asOf query string false "Assessment date (YYYY-MM-DD, default today)"
// @Param   dryRun query bool false "Compute without committing"
// @Success 200 {object} dto.LateFeeRunSummary "The run summary"
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 500 {object} map[string]string "Failed to run late fees"
// @Router /tenants/{tenantID}/late-fees/run [post]
func (h *invoiceHandler) runLateFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}
	dryRun := c.Query("dryRun") == "true"

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	summary, err := h.invoiceService.RunLateFees(c.Request.Context(), tenantID, asOf, dryRun, actor)
	if err != nil {
		respondError(c, err, "Failed to run late fees")
		return
	}

	logger.Info("Late fee run completed",
		slog.Bool("dry_run", dryRun),
		slog.Int("applied", summary.Applied),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}
