package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
)

// reportingHandler handles HTTP requests for the derived read-only views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// registerReportingRoutes registers reporting routes on the tenant-scoped group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/ar-aging", h.arAging)
		reports.GET("/owner-ledger/:ownerID", h.ownerLedger)
		reports.GET("/ar-reconciliation", h.reconcileAR)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Aggregates account balances up to a date, optionally scoped to one fund; tenant-wide debits must equal credits
// @Tags reports
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD, default today)"
// @Param   fundID query string false "Scope to one fund"
// @Success 200 {object} domain.TrialBalanceReport "The trial balance"
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 500 {object} map[string]string "Failed to build trial balance"
// @Router /tenants/{tenantID}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	tenantID := c.Param("tenantID")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}
	var fundID *string
	if v, found := c.GetQuery("fundID"); found && v != "" {
		fundID = &v
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, fundID, asOf)
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, report)
}

// arAging godoc
// @Summary AR aging report
// @Description Buckets open invoice balances by days overdue per owner
// @Tags reports
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.ARAgingReport "The aging report"
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 500 {object} map[string]string "Failed to build aging report"
// @Router /tenants/{tenantID}/reports/ar-aging [get]
func (h *reportingHandler) arAging(c *gin.Context) {
	tenantID := c.Param("tenantID")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.ARAging(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondError(c, err, "Failed to build aging report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// ownerLedger godoc
// @Summary Owner ledger
// @Description Merges one owner's invoices and payments chronologically with a running balance
// @Tags reports
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   ownerID path string true "Owner ID"
// @Success 200 {object} domain.OwnerLedger "The owner ledger"
// @Failure 500 {object} map[string]string "Failed to build owner ledger"
// @Router /tenants/{tenantID}/reports/owner-ledger/{ownerID} [get]
func (h *reportingHandler) ownerLedger(c *gin.Context) {
	tenantID := c.Param("tenantID")
	ownerID := c.Param("ownerID")

	ledger, err := h.reportingService.OwnerLedger(c.Request.Context(), tenantID, ownerID)
	if err != nil {
		respondError(c, err, "Failed to build owner ledger")
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// reconcileAR godoc
// @Summary AR tie-out
// @Description Compares open invoice totals against the AR control account balance; the variance must be zero
// @Tags reports
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   asOf query string false "Report date (YYYY-MM-DD, default today)"
// @Success 200 {object} domain.ARReconciliation "The reconciliation result"
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 500 {object} map[string]string "Failed to reconcile AR"
// @Router /tenants/{tenantID}/reports/ar-reconciliation [get]
func (h *reportingHandler) reconcileAR(c *gin.Context) {
	tenantID := c.Param("tenantID")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	result, err := h.reportingService.ReconcileAR(c.Request.Context(), tenantID, asOf)
	if err != nil {
		respondError(c, err, "Failed to reconcile AR")
		return
	}

	c.JSON(http.StatusOK, result)
}
