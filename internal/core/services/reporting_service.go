package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/reports"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// reportingService produces fund statements, comparisons, consolidated
// balances, and compiles/executes custom report definitions.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	fundRepo      portsrepo.FundRepositoryFacade
	entityRepo    portsrepo.EntityRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, fundRepo portsrepo.FundRepositoryFacade, entityRepo portsrepo.EntityRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		fundRepo:      fundRepo,
		entityRepo:    entityRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetFundBalance(ctx context.Context, fundID string) (decimal.Decimal, error) {
	if _, err := s.fundRepo.FindFundByID(ctx, fundID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve fund: %w", err)
	}
	balance, err := s.reportingRepo.GetFundBalance(ctx, fundID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get fund balance: %w", err)
	}
	return balance, nil
}

// GetFundStatement builds a statement for the fund over the given window:
// opening balance from activity before the window, dated movements with a
// running balance, and side totals.
func (s *reportingService) GetFundStatement(ctx context.Context, fundID string, start, end *time.Time) (*domain.FundStatement, error) {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fund: %w", err)
	}

	opening := decimal.Zero
	if start != nil {
		opening, err = s.reportingRepo.GetFundBalanceBefore(ctx, fundID, *start)
		if err != nil {
			return nil, fmt.Errorf("failed to get opening balance: %w", err)
		}
	}

	activity, err := s.reportingRepo.GetFundActivity(ctx, fundID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund activity: %w", err)
	}

	running := opening
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i := range activity {
		running = running.Add(activity[i].Credit).Sub(activity[i].Debit)
		activity[i].RunningBalance = running
		totalDebits = totalDebits.Add(activity[i].Debit)
		totalCredits = totalCredits.Add(activity[i].Credit)
	}

	return &domain.FundStatement{
		Fund:           *fund,
		OpeningBalance: opening,
		Activity:       activity,
		TotalDebits:    totalDebits,
		TotalCredits:   totalCredits,
		ClosingBalance: running,
	}, nil
}

// GetFundComparison returns every fund of the entity with its balance over the
// given window, side by side.
func (s *reportingService) GetFundComparison(ctx context.Context, entityID string, start, end *time.Time) ([]domain.FundComparisonRow, error) {
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, fmt.Errorf("failed to resolve entity: %w", err)
	}

	funds, err := s.fundRepo.ListFundsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}

	rows := make([]domain.FundComparisonRow, 0, len(funds))
	for _, fund := range funds {
		activity, err := s.reportingRepo.GetFundActivity(ctx, fund.FundID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to get activity for fund %s: %w", fund.FundID, err)
		}
		balance := decimal.Zero
		for _, row := range activity {
			balance = balance.Add(row.Credit).Sub(row.Debit)
		}
		rows = append(rows, domain.FundComparisonRow{
			FundID:   fund.FundID,
			Code:     fund.Code,
			Name:     fund.Name,
			FundType: fund.FundType,
			Balance:  balance,
		})
	}
	return rows, nil
}

// GetConsolidatedBalance returns the entity's own posted balance plus the
// balances of its direct children. Entities not flagged as consolidated
// report their own balance only.
func (s *reportingService) GetConsolidatedBalance(ctx context.Context, entityID string) (*domain.ConsolidatedBalance, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity: %w", err)
	}

	own, err := s.reportingRepo.GetEntityBalance(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity balance: %w", err)
	}

	if !entity.IsConsolidated {
		return &domain.ConsolidatedBalance{
			EntityID:     entityID,
			OwnBalance:   own,
			Children:     []domain.EntityBalance{},
			Consolidated: own,
		}, nil
	}

	children, err := s.entityRepo.FindChildEntities(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child entities: %w", err)
	}

	result := &domain.ConsolidatedBalance{
		EntityID:     entityID,
		OwnBalance:   own,
		Children:     make([]domain.EntityBalance, 0, len(children)),
		Consolidated: own,
	}
	for _, child := range children {
		balance, err := s.reportingRepo.GetEntityBalance(ctx, child.EntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance for child entity %s: %w", child.EntityID, err)
		}
		result.Children = append(result.Children, domain.EntityBalance{
			EntityID: child.EntityID,
			Code:     child.Code,
			Name:     child.Name,
			Balance:  balance,
		})
		result.Consolidated = result.Consolidated.Add(balance)
	}
	return result, nil
}

// CompileReport validates a definition against the field registry and returns
// the generated SQL without executing it.
func (s *reportingService) CompileReport(ctx context.Context, def reports.Definition) (*dto.CompiledReportResponse, error) {
	compiled, err := reports.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile report: %w", err)
	}
	return &dto.CompiledReportResponse{SQL: compiled.SQL, Params: compiled.Args}, nil
}

// RunReport compiles and executes a custom report definition.
func (s *reportingService) RunReport(ctx context.Context, def reports.Definition) (*dto.CustomReportResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	compiled, err := reports.Compile(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile report: %w", err)
	}

	rows, err := s.reportingRepo.ExecuteCustom(ctx, compiled.SQL, compiled.Args, compiled.Fields)
	if err != nil {
		logger.Error("Failed to execute custom report", slog.String("error", err.Error()), slog.String("source", def.DataSource))
		return nil, fmt.Errorf("failed to execute report: %w", err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return &dto.CustomReportResponse{
		Fields:   compiled.Fields,
		Rows:     rows,
		RowCount: len(rows),
	}, nil
}
