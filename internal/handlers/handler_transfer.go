package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// transferHandler handles HTTP requests for inter-entity transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers inter-entity transfer routes.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	rg.POST("/transfers", h.createTransfer)
	rg.GET("/journal-entries/:journalEntryID/matching", h.getMatchingEntry)
}

// createTransfer godoc
// @Summary Create an inter-entity transfer
// @Description Writes one posted journal entry per entity, cross-linked, in a single transaction
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Entity or account not found"
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.transferService.CreateTransfer(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Failed to create transfer", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getMatchingEntry godoc
// @Summary Get the paired entry of a transfer
// @Tags transfers
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Entry not found or not part of a transfer"
// @Router /journal-entries/{journalEntryID}/matching [get]
func (h *transferHandler) getMatchingEntry(c *gin.Context) {
	entry, err := h.transferService.GetMatchingEntry(c.Request.Context(), c.Param("journalEntryID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
