package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/reports"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

// ReportingSvcFacade produces fund statements and runs custom report definitions.
type ReportingSvcFacade interface {
	GetFundBalance(ctx context.Context, fundID string) (decimal.Decimal, error)
	GetFundStatement(ctx context.Context, fundID string, start, end *time.Time) (*domain.FundStatement, error)
	GetFundComparison(ctx context.Context, entityID string, start, end *time.Time) ([]domain.FundComparisonRow, error)
	GetConsolidatedBalance(ctx context.Context, entityID string) (*domain.ConsolidatedBalance, error)
	CompileReport(ctx context.Context, def reports.Definition) (*dto.CompiledReportResponse, error)
	RunReport(ctx context.Context, def reports.Definition) (*dto.CustomReportResponse, error)
}
