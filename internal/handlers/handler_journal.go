package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers journal entry routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	rg.POST("/entities/:entityID/journal-entries", h.createJournalEntry)
	rg.GET("/entities/:entityID/journal-entries", h.listJournalEntries)

	entries := rg.Group("/journal-entries")
	{
		entries.GET("/:journalEntryID", h.getJournalEntryByID)
		entries.GET("/:journalEntryID/lines", h.getJournalEntryLines)
		entries.PUT("/:journalEntryID", h.updateDraftJournalEntry)
		entries.POST("/:journalEntryID/post", h.postJournalEntry)
		entries.POST("/:journalEntryID/void", h.voidJournalEntry)
		entries.DELETE("/:journalEntryID", h.deleteDraftJournalEntry)
	}
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Creates a draft or posted double-entry journal entry; posted entries must balance
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry details"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entry"
// @Router /entities/{entityID}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), c.Param("entityID"), req)
	if err != nil {
		logger.Warn("Failed to create journal entry", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listJournalEntries godoc
// @Summary List an entity's journal entries
// @Tags journal-entries
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   status query string false "Filter by status (DRAFT, POSTED, VOID)"
// @Success 200 {array} domain.JournalEntry
// @Router /entities/{entityID}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	var status *domain.JournalStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.JournalStatus(raw)
		switch s {
		case domain.Draft, domain.Posted, domain.Void:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrValidation.Error() + ": unknown status " + raw})
			return
		}
	}

	entries, err := h.journalService.ListJournalEntriesByEntity(c.Request.Context(), c.Param("entityID"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// getJournalEntryByID godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Router /journal-entries/{journalEntryID} [get]
func (h *journalHandler) getJournalEntryByID(c *gin.Context) {
	entry, err := h.journalService.GetJournalEntryByID(c.Request.Context(), c.Param("journalEntryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// getJournalEntryLines godoc
// @Summary Get only the lines of a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {array} domain.JournalEntryLine
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Router /journal-entries/{journalEntryID}/lines [get]
func (h *journalHandler) getJournalEntryLines(c *gin.Context) {
	entry, err := h.journalService.GetJournalEntryByID(c.Request.Context(), c.Param("journalEntryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry.Lines)
}

// updateDraftJournalEntry godoc
// @Summary Update a draft journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} domain.JournalEntry
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{journalEntryID} [put]
func (h *journalHandler) updateDraftJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateDraftJournalEntry(c.Request.Context(), c.Param("journalEntryID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// postJournalEntry godoc
// @Summary Post a draft journal entry
// @Description Transitions a balanced draft to Posted and applies its balance effects
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Entry does not balance"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /journal-entries/{journalEntryID}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), c.Param("journalEntryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// voidJournalEntry godoc
// @Summary Void a journal entry
// @Description Voids a draft or posted entry; voiding a posted entry reverses its balance effects
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /journal-entries/{journalEntryID}/void [post]
func (h *journalHandler) voidJournalEntry(c *gin.Context) {
	entry, err := h.journalService.VoidJournalEntry(c.Request.Context(), c.Param("journalEntryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// deleteDraftJournalEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{journalEntryID} [delete]
func (h *journalHandler) deleteDraftJournalEntry(c *gin.Context) {
	if err := h.journalService.DeleteDraftJournalEntry(c.Request.Context(), c.Param("journalEntryID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
