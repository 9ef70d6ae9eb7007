package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/reports"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// reportingHandler handles HTTP requests for reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/funds/:fundID/balance", h.getFundBalance)
	rg.GET("/funds/:fundID/statement", h.getFundStatement)
	rg.GET("/entities/:entityID/fund-comparison", h.getFundComparison)
	rg.GET("/entities/:entityID/consolidated-balance", h.getConsolidatedBalance)

	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/schema", h.getReportSchema)
		reportsGroup.GET("/fields/:dataSource", h.getDataSourceFields)
		reportsGroup.POST("/compile", h.compileReport)
		reportsGroup.POST("/run", h.runReport)
	}
}

// parseDateWindow reads optional startDate/endDate query params (YYYY-MM-DD).
func parseDateWindow(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"startDate", &start}, {"endDate", &end}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + p.name + ": expected YYYY-MM-DD"})
			return nil, nil, false
		}
		*p.dst = &t
	}
	return start, end, true
}

// getFundBalance godoc
// @Summary Get a fund's balance
// @Description Aggregates credit - debit over the fund's posted journal lines
// @Tags reports
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Fund not found"
// @Router /funds/{fundID}/balance [get]
func (h *reportingHandler) getFundBalance(c *gin.Context) {
	fundID := c.Param("fundID")
	balance, err := h.reportingService.GetFundBalance(c.Request.Context(), fundID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fundID": fundID, "balance": balance})
}

// getFundStatement godoc
// @Summary Get a fund statement
// @Description Opening balance, dated movements with running balance, and closing balance over a window
// @Tags reports
// @Produce  json
// @Param   fundID path string true "Fund ID"
// @Param   startDate query string false "Window start (YYYY-MM-DD)"
// @Param   endDate query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} domain.FundStatement
// @Failure 404 {object} map[string]string "Fund not found"
// @Router /funds/{fundID}/statement [get]
func (h *reportingHandler) getFundStatement(c *gin.Context) {
	start, end, ok := parseDateWindow(c)
	if !ok {
		return
	}
	statement, err := h.reportingService.GetFundStatement(c.Request.Context(), c.Param("fundID"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}

// getFundComparison godoc
// @Summary Compare fund balances of an entity side by side
// @Tags reports
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   startDate query string false "Window start (YYYY-MM-DD)"
// @Param   endDate query string false "Window end (YYYY-MM-DD)"
// @Success 200 {array} domain.FundComparisonRow
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /entities/{entityID}/fund-comparison [get]
func (h *reportingHandler) getFundComparison(c *gin.Context) {
	start, end, ok := parseDateWindow(c)
	if !ok {
		return
	}
	rows, err := h.reportingService.GetFundComparison(c.Request.Context(), c.Param("entityID"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getConsolidatedBalance godoc
// @Summary Get an entity's balance consolidated with its direct children
// @Tags reports
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {object} domain.ConsolidatedBalance
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /entities/{entityID}/consolidated-balance [get]
func (h *reportingHandler) getConsolidatedBalance(c *gin.Context) {
	balance, err := h.reportingService.GetConsolidatedBalance(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getReportSchema godoc
// @Summary List the queryable data sources and fields for custom reports
// @Tags reports
// @Produce  json
// @Success 200 {object} map[string][]string
// @Router /reports/schema [get]
func (h *reportingHandler) getReportSchema(c *gin.Context) {
	schema := make(map[string][]string)
	for _, source := range reports.Sources() {
		schema[source] = reports.FieldsFor(reports.DataSource(source))
	}
	c.JSON(http.StatusOK, schema)
}

// getDataSourceFields godoc
// @Summary List the queryable fields of one data source
// @Tags reports
// @Produce  json
// @Param   dataSource path string true "Data source name"
// @Success 200 {array} string
// @Failure 404 {object} map[string]string "Unknown data source"
// @Router /reports/fields/{dataSource} [get]
func (h *reportingHandler) getDataSourceFields(c *gin.Context) {
	source := reports.DataSource(c.Param("dataSource"))
	if !reports.LookupSource(source) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown data source: " + string(source)})
		return
	}
	c.JSON(http.StatusOK, reports.FieldsFor(source))
}

// compileReport godoc
// @Summary Compile a custom report definition without executing it
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   definition body reports.Definition true "Report definition"
// @Success 200 {object} dto.CompiledReportResponse
// @Failure 400 {object} map[string]string "Definition rejected by the field registry"
// @Router /reports/compile [post]
func (h *reportingHandler) compileReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var def reports.Definition
	if err := c.ShouldBindJSON(&def); err != nil {
		logger.Warn("Failed to bind JSON for CompileReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	compiled, err := h.reportingService.CompileReport(c.Request.Context(), def)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, compiled)
}

// runReport godoc
// @Summary Compile and execute a custom report definition
// @Tags reports
// @Accept  json
// @Produce  json
// @Param   definition body reports.Definition true "Report definition"
// @Success 200 {object} dto.CustomReportResponse
// @Failure 400 {object} map[string]string "Definition rejected by the field registry"
// @Router /reports/run [post]
func (h *reportingHandler) runReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var def reports.Definition
	if err := c.ShouldBindJSON(&def); err != nil {
		logger.Warn("Failed to bind JSON for RunReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.reportingService.RunReport(c.Request.Context(), def)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
