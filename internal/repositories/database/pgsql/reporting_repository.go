package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) GetFundBalance(ctx context.Context, fundID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.credit_amount - l.debit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.fund_id = $1 AND e.status = 'POSTED';
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, fundID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate balance of fund %s: %w", fundID, err)
	}
	return balance, nil
}

func (r *PgxReportingRepository) GetFundBalanceBefore(ctx context.Context, fundID string, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.credit_amount - l.debit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.fund_id = $1 AND e.status = 'POSTED' AND e.entry_date < $2;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, fundID, cutoff).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate opening balance of fund %s: %w", fundID, err)
	}
	return balance, nil
}

func (r *PgxReportingRepository) GetFundActivity(ctx context.Context, fundID string, start, end *time.Time) ([]domain.FundActivityRow, error) {
	query := `
		SELECT e.entry_date, e.reference_number, l.description, l.debit_amount, l.credit_amount
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.fund_id = $1 AND e.status = 'POSTED'
	`
	args := []any{fundID}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}
	query += " ORDER BY e.entry_date, e.created_at, l.line_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity of fund %s: %w", fundID, err)
	}
	defer rows.Close()

	activity := []domain.FundActivityRow{}
	for rows.Next() {
		var row domain.FundActivityRow
		if err := rows.Scan(&row.EntryDate, &row.ReferenceNumber, &row.Description, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan fund activity row: %w", err)
		}
		activity = append(activity, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund activity rows: %w", err)
	}
	return activity, nil
}

func (r *PgxReportingRepository) GetEntityBalance(ctx context.Context, entityID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.credit_amount - l.debit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE e.entity_id = $1 AND e.status = 'POSTED' AND l.fund_id IS NOT NULL;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, entityID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate balance of entity %s: %w", entityID, err)
	}
	return balance, nil
}

// ExecuteCustom runs a compiler-generated query and maps each row onto the
// selected field aliases in order.
func (r *PgxReportingRepository) ExecuteCustom(ctx context.Context, sql string, args []any, fields []string) ([]map[string]any, error) {
	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute custom report query: %w", err)
	}
	defer rows.Close()

	results := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read custom report row: %w", err)
		}
		if len(values) != len(fields) {
			return nil, fmt.Errorf("custom report returned %d columns, expected %d", len(values), len(fields))
		}
		row := make(map[string]any, len(fields))
		for i, field := range fields {
			row[field] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating custom report rows: %w", err)
	}
	return results, nil
}
