package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// ReportingRepository defines read-only projections over posted ledger rows.
// Balances are aggregated from journal entry lines, not from the persisted
// running-balance columns, so reports stay correct even if a cached balance
// drifts.
type ReportingRepository interface {
	// GetFundBalance aggregates credit - debit over the fund's posted lines.
	GetFundBalance(ctx context.Context, fundID string) (decimal.Decimal, error)

	// GetFundBalanceBefore aggregates the fund balance over posted lines dated
	// strictly before the cutoff; used for statement opening balances.
	GetFundBalanceBefore(ctx context.Context, fundID string, cutoff time.Time) (decimal.Decimal, error)

	// GetFundActivity lists the fund's posted movements in the date window,
	// oldest first. Nil bounds are open.
	GetFundActivity(ctx context.Context, fundID string, start, end *time.Time) ([]domain.FundActivityRow, error)

	// GetEntityBalance aggregates credit - debit across all posted lines of the
	// entity's journal entries.
	GetEntityBalance(ctx context.Context, entityID string) (decimal.Decimal, error)

	// ExecuteCustom runs a compiled custom-report query and returns rows keyed
	// by the selected field aliases. The SQL must come from the report
	// compiler; this method trusts its input.
	ExecuteCustom(ctx context.Context, sql string, args []any, fields []string) ([]map[string]any, error)
}
