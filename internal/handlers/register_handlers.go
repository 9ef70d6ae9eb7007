package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nonprofit-suite/fund_accounting_app/cmd/docs"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting service interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceProvider,
	dbPool *pgxpool.Pool,
) {
	registerHealthRoutes(r, dbPool)

	setupAPIV1Routes(r, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to per-resource
// route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceProvider) {
	v1 := r.Group("/api/v1")

	registerEntityRoutes(v1, services.EntitySvc)
	registerAccountRoutes(v1, services.AccountSvc)
	registerFundRoutes(v1, services.FundSvc)
	registerJournalRoutes(v1, services.JournalSvc)
	registerTransferRoutes(v1, services.TransferSvc)
	registerReportingRoutes(v1, services.ReportingSvc)
	registerImportRoutes(v1, services.ImportSvc)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// No swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
