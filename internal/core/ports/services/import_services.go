package services

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/importer"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

// ImportSvcFacade runs the import pipeline: structural analysis, dry-run
// validation, asynchronous execution, and rollback of a completed run.
type ImportSvcFacade interface {
	AnalyzeSheet(ctx context.Context, sheet importer.Sheet) (*importer.AnalysisReport, error)
	ValidateSheet(ctx context.Context, sheet importer.Sheet, cfg importer.Config) (*importer.ValidationReport, error)
	ProcessImport(ctx context.Context, req dto.ProcessImportRequest) (*domain.ImportJob, error)
	GetImportStatus(ctx context.Context, importID string) (*domain.ImportJob, error)
	ListImports(ctx context.Context) ([]domain.ImportJob, error)
	CancelImport(ctx context.Context, importID string) error
	RollbackImport(ctx context.Context, importID string) (*domain.ImportJob, error)
}
