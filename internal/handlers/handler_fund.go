package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// fundHandler handles HTTP requests related to funds.
type fundHandler struct {
	fundService portssvc.FundSvcFacade
}

func newFundHandler(fs portssvc.FundSvcFacade) *fundHandler {
	return &fundHandler{fundService: fs}
}

// registerFundRoutes registers fund management routes.
func registerFundRoutes(rg *gin.RouterGroup, fundService portssvc.FundSvcFacade) {
	h := newFundHandler(fundService)

	rg.POST("/entities/:entityID/funds", h.createFund)
	rg.GET("/entities/:entityID/funds", h.listFunds)

	funds := rg.Group("/funds")
	{
		funds.GET("/:fundID", h.getFundByID)
		funds.PUT("/:fundID", h.updateFund)
		funds.DELETE("/:fundID", h.deleteFund)
	}
}

// createFund godoc
// @Summary Create a fund within an entity
// @Tags funds
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   fund body dto.CreateFundRequest true "Fund details"
// @Success 201 {object} domain.Fund
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Fund code already exists"
// @Router /entities/{entityID}/funds [post]
func (h *fundHandler) createFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), c.Param("entityID"), req)
	if err != nil {
		logger.Warn("Failed to create fund", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fund)
}

// listFunds godoc
// @Summary List an entity's funds
// @Tags funds
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {array} domain.Fund
// @Router /entities/{entityID}/funds [get]
func (h *fundHandler) listFunds(c *gin.Context) {
	funds, err := h.fundService.ListFundsByEntity(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, funds)
}

// getFundByID godoc
// @Summary Get a fund by ID
// @Tags funds
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} domain.Fund
// @Failure 404 {object} map[string]string "Fund not found"
// @Router /funds/{fundID} [get]
func (h *fundHandler) getFundByID(c *gin.Context) {
	fund, err := h.fundService.GetFundByID(c.Request.Context(), c.Param("fundID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

// updateFund godoc
// @Summary Update a fund
// @Tags funds
// @Accept  json
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   fund body dto.UpdateFundRequest true "Fields to update"
// @Success 200 {object} domain.Fund
// @Failure 404 {object} map[string]string "Fund not found"
// @Router /funds/{fundID} [put]
func (h *fundHandler) updateFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	fund, err := h.fundService.UpdateFund(c.Request.Context(), c.Param("fundID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

// deleteFund godoc
// @Summary Delete a fund
// @Tags funds
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Fund not found"
// @Failure 409 {object} map[string]string "Fund is referenced by journal lines"
// @Router /funds/{fundID} [delete]
func (h *fundHandler) deleteFund(c *gin.Context) {
	if err := h.fundService.DeleteFund(c.Request.Context(), c.Param("fundID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
