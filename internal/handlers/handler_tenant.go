package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// tenantHandler handles HTTP requests related to tenants.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

// newTenantHandler creates a new tenantHandler.
func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{
		tenantService: tenantService,
	}
}

// registerTenantRoutes registers tenant routes on the given router group.
func registerTenantRoutes(rg *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	h := newTenantHandler(tenantService)

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listTenants)
		tenants.GET("/:tenantID", h.getTenant)
		tenants.PUT("/:tenantID/settings", h.updateTenantSettings)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Provisions a new association tenant with the default late-fee policy
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse "The created tenant"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create tenant"
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create tenant")
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listTenants godoc
// @Summary List tenants
// @Description Lists all active tenants
// @Tags tenants
// @Produce  json
// @Success 200 {array} dto.TenantResponse "Tenants"
// @Failure 500 {object} map[string]string "Failed to list tenants"
// @Router /tenants [get]
func (h *tenantHandler) listTenants(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list tenants")
		return
	}

	responses := make([]dto.TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = dto.ToTenantResponse(&tenants[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getTenant godoc
// @Summary Get a tenant
// @Description Retrieves a tenant by ID
// @Tags tenants
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse "The tenant"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to retrieve tenant"
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	tenantID := c.Param("tenantID")

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err, "Failed to retrieve tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// updateTenantSettings godoc
// @Summary Update tenant settings
// @Description Assigns the tenant's control accounts and late-fee policy
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   settings body dto.UpdateTenantSettingsRequest true "Settings to update"
// @Success 200 {object} dto.TenantResponse "The updated tenant"
// @Failure 400 {object} map[string]string "Invalid request format or account"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Failure 500 {object} map[string]string "Failed to update tenant settings"
// @Router /tenants/{tenantID}/settings [put]
func (h *tenantHandler) updateTenantSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateTenantSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.UpdateTenantSettings(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to update tenant settings")
		return
	}

	logger.Info("Tenant settings updated", slog.String("tenant_id", tenantID))
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}
