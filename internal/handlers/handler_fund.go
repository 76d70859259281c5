package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// fundHandler handles HTTP requests related to funds.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

func newFundHandler(fundService portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{
		fundService: fundService,
	}
}

// registerFundRoutes registers fund routes on the tenant-scoped group.
func registerFundRoutes(rg *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	funds := rg.Group("/funds")
	{
		funds.POST("", h.createFund)
		funds.GET("", h.listFunds)
		funds.GET("/:fundID", h.getFund)
	}
}

// createFund godoc
// @Summary Create a new fund
// @Description Creates a fund (sub-ledger) within the tenant
// @Tags funds
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} dto.FundResponse "The created fund"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 500 {object} map[string]string "Failed to create fund"
// @Router /tenants/{tenantID}/funds [post]
func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to create fund")
		return
	}

	logger.Info("Fund created", slog.String("fund_id", fund.FundID), slog.String("tenant_id", tenantID))
	c.JSON(http.StatusCreated, dto.ToFundResponse(fund))
}

// listFunds godoc
// @Summary List funds
// @Description Lists the tenant's funds
// @Tags funds
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {array} dto.FundResponse "Funds"
// @Failure 500 {object} map[string]string "Failed to list funds"
// @Router /tenants/{tenantID}/funds [get]
func (h *fundHandler) listFunds(c *gin.Context) {
	tenantID := c.Param("tenantID")

	funds, err := h.fundService.ListFunds(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to list funds")
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponses(funds))
}

// getFund godoc
// @Summary Get a fund
// @Description Retrieves a fund by ID
// @Tags funds
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} dto.FundResponse "The fund"
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fund"
// @Router /tenants/{tenantID}/funds/{fundID} [get]
func (h *fundHandler) getFund(c *gin.Context) {
	tenantID := c.Param("tenantID")
	fundID := c.Param("fundID")

	fund, err := h.fundService.GetFundByID(c.Request.Context(), tenantID, fundID)
	if err != nil {
		respondError(c, err, "Failed to retrieve fund")
		return
	}

	c.JSON(http.StatusOK, dto.ToFundResponse(fund))
}
