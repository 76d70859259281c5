package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoaops/hoa_ledger_app/internal/core/ports/services"
	"github.com/hoaops/hoa_ledger_app/internal/dto"
	"github.com/hoaops/hoa_ledger_app/internal/middleware"
)

// journalHandler handles HTTP requests against the journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers journal routes on the tenant-scoped group.
// There is no PUT or DELETE on entries; the only correction path is the
// reverse endpoint.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
	rg.POST("/transfers", h.transferFunds)
}

// postEntry godoc
// @Summary Post a manual journal entry
// @Description Validates and commits a balanced journal entry; all lines must belong to one fund
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   entry body dto.PostEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse "The posted entry"
// @Failure 400 {object} map[string]string "Invalid request format or unbalanced entry"
// @Failure 500 {object} map[string]string "Failed to post entry"
// @Router /tenants/{tenantID}/entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to post entry")
		return
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists the tenant's journal entries newest first, with keyset pagination
// @Tags journal
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   limit query int false "Page size (default 50)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse "A page of entries"
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /tenants/{tenantID}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	tenantID := c.Param("tenantID")

	params := dto.ListEntriesParams{}
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

	page, err := h.journalService.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry and its lines by ID
// @Tags journal
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse "The entry with its lines"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Router /tenants/{tenantID}/entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	tenantID := c.Param("tenantID")
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntryRequest carries the reason a posted entry is being reversed.
type reverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts the exact debit/credit mirror of an entry and links both records
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   entryID path string true "Entry ID"
// @Param   reversal body reverseEntryRequest true "Reversal reason"
// @Success 201 {object} dto.JournalEntryResponse "The reversal entry"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse entry"
// @Router /tenants/{tenantID}/entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")
	entryID := c.Param("entryID")

	var req reverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), tenantID, entryID, req.Reason, actor)
	if err != nil {
		respondError(c, err, "Failed to reverse entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// transferFunds godoc
// @Summary Transfer between funds
// @Description Posts an inter-fund transfer as two linked entries, one per fund
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   tenantID path string true "Tenant ID"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {array} dto.JournalEntryResponse "The two linked entries"
// @Failure 400 {object} map[string]string "Invalid request format or accounts"
// @Failure 500 {object} map[string]string "Failed to transfer funds"
// @Router /tenants/{tenantID}/transfers [post]
func (h *journalHandler) transferFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for transferFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	entries, err := h.journalService.TransferFunds(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to transfer funds")
		return
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	logger.Info("Inter-fund transfer posted", slog.Int("entries", len(entries)))
	c.JSON(http.StatusCreated, responses)
}
