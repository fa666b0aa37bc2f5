package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/approve", h.approveEntry)
		entries.POST("/:id/void", h.voidEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates and persists a balanced entry; account balances stay untouched until posting
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.GetJournalEntryResponse
// @Failure 400 {object} map[string]string "Validation error or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Items: dto.ToJournalItemResponses(entry.Items),
	})
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry header with its items
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.GetJournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Items: dto.ToJournalItemResponses(entry.Items),
	})
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entry headers within a date range, optionally filtered by status
// @Tags journal
// @Produce  json
// @Param   from query string true "Range start (YYYY-MM-DD)"
// @Param   to query string true "Range end (YYYY-MM-DD)"
// @Param   status query string false "Status filter" Enums(draft, posted, approved, voided)
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{Entries: dto.ToListJournalEntryResponse(entries)})
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Applies the entry to every touched account balance atomically
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.GetJournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Items: dto.ToJournalItemResponses(entry.Items),
	})
}

// approveEntry godoc
// @Summary Approve a posted entry
// @Description Records the reviewer sign-off; balances stay untouched
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.GetJournalEntryResponse
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Security BearerAuth
// @Router /journal-entries/{id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	approverUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.ApproveEntry(c.Request.Context(), c.Param("id"), approverUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Items: dto.ToJournalItemResponses(entry.Items),
	})
}

// voidEntry godoc
// @Summary Void a posted or approved entry
// @Description Reverses the entry's effect on every touched balance; the entry stays on record
// @Tags journal
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.GetJournalEntryResponse
// @Failure 409 {object} map[string]string "Entry cannot be voided"
// @Security BearerAuth
// @Router /journal-entries/{id}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.VoidEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Items: dto.ToJournalItemResponses(entry.Items),
	})
}
