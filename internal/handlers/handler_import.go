package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// importHandler handles HTTP requests for the bulk-import pipeline.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(is portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: is}
}

// registerImportRoutes registers import pipeline routes.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade) {
	h := newImportHandler(importService)

	imports := rg.Group("/imports")
	{
		imports.POST("/analyze", h.analyzeSheet)
		imports.POST("/validate", h.validateSheet)
		imports.POST("/process", h.processImport)
		imports.GET("", h.listImports)
		imports.GET("/:importID", h.getImportStatus)
		imports.POST("/:importID/cancel", h.cancelImport)
		imports.POST("/:importID/rollback", h.rollbackImport)
	}
}

// analyzeSheet godoc
// @Summary Analyze an uploaded sheet's structure
// @Description Profiles columns, suggests a column mapping and returns a reusable import config
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   sheet body dto.AnalyzeImportRequest true "Parsed sheet"
// @Success 200 {object} importer.AnalysisReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /imports/analyze [post]
func (h *importHandler) analyzeSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AnalyzeImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AnalyzeSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.importService.AnalyzeSheet(c.Request.Context(), req.Sheet())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// validateSheet godoc
// @Summary Validate an uploaded sheet against an import config
// @Description Dry-run reconciliation: per-transaction balance check, missing data scan, master-record manifest
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   request body dto.ValidateImportRequest true "Sheet and confirmed config"
// @Success 200 {object} importer.ValidationReport
// @Failure 400 {object} map[string]string "Required columns unmapped"
// @Router /imports/validate [post]
func (h *importHandler) validateSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ValidateImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.importService.ValidateSheet(c.Request.Context(), req.Sheet(), req.Config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// processImport godoc
// @Summary Execute an import asynchronously
// @Description Accepts the run and returns a job id; poll the status endpoint for progress. The write is all-or-nothing.
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   request body dto.ProcessImportRequest true "Sheet, config and target entity"
// @Success 202 {object} domain.ImportJob
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /imports/process [post]
func (h *importHandler) processImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProcessImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessImport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.importService.ProcessImport(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Failed to start import", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// listImports godoc
// @Summary List import jobs
// @Tags imports
// @Produce  json
// @Success 200 {array} domain.ImportJob
// @Router /imports [get]
func (h *importHandler) listImports(c *gin.Context) {
	jobs, err := h.importService.ListImports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// getImportStatus godoc
// @Summary Get an import job's status and progress
// @Tags imports
// @Produce  json
// @Param   importID path string true "Import ID"
// @Success 200 {object} domain.ImportJob
// @Failure 404 {object} map[string]string "Import job not found"
// @Router /imports/{importID} [get]
func (h *importHandler) getImportStatus(c *gin.Context) {
	job, err := h.importService.GetImportStatus(c.Request.Context(), c.Param("importID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// cancelImport godoc
// @Summary Cancel an in-flight import
// @Tags imports
// @Produce  json
// @Param   importID path string true "Import ID"
// @Success 202 {object} map[string]string
// @Failure 409 {object} map[string]string "Import is not processing"
// @Router /imports/{importID}/cancel [post]
func (h *importHandler) cancelImport(c *gin.Context) {
	importID := c.Param("importID")
	if err := h.importService.CancelImport(c.Request.Context(), importID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"importId": importID, "status": "cancelling"})
}

// rollbackImport godoc
// @Summary Roll back a completed import
// @Description Deletes every journal entry tagged with the import id and reverses its balance effects
// @Tags imports
// @Produce  json
// @Param   importID path string true "Import ID"
// @Success 200 {object} domain.ImportJob
// @Failure 409 {object} map[string]string "Import is not in a rollbackable state"
// @Router /imports/{importID}/rollback [post]
func (h *importHandler) rollbackImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	job, err := h.importService.RollbackImport(c.Request.Context(), c.Param("importID"))
	if err != nil {
		logger.Warn("Failed to roll back import", slog.String("error", err.Error()), slog.String("import_id", c.Param("importID")))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
