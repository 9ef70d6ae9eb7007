package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	"github.com/nonprofit-suite/fund_accounting_app/internal/models"
	"github.com/nonprofit-suite/fund_accounting_app/internal/utils/mapping"
)

const fundColumns = `fund_id, entity_id, code, name, fund_type, description, status, balance, created_at, last_updated_at`

type PgxFundRepository struct {
	BaseRepository
}

// newPgxFundRepository creates a new repository for fund data.
func newPgxFundRepository(pool *pgxpool.Pool) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	model := mapping.ToModelFund(fund)

	query := `
		INSERT INTO funds (` + fundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.FundID,
		model.EntityID,
		model.Code,
		model.Name,
		model.FundType,
		model.Description,
		model.Status,
		model.Balance,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fund code %s already exists in entity %s", apperrors.ErrDuplicate, model.Code, model.EntityID)
		}
		return fmt.Errorf("failed to save fund %s: %w", model.FundID, err)
	}
	return nil
}

func (r *PgxFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE fund_id = $1;`

	rows, err := r.Pool.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund %s: %w", fundID, err)
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Fund])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("fund %s not found", fundID))
		}
		return nil, fmt.Errorf("failed to find fund by ID %s: %w", fundID, err)
	}

	fund := mapping.ToDomainFund(model)
	return &fund, nil
}

func (r *PgxFundRepository) FindFundByCode(ctx context.Context, entityID string, code string) (*domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE entity_id = $1 AND code = $2;`

	rows, err := r.Pool.Query(ctx, query, entityID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund by code %s: %w", code, err)
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Fund])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("fund with code %s not found in entity %s", code, entityID))
		}
		return nil, fmt.Errorf("failed to find fund by code %s: %w", code, err)
	}

	fund := mapping.ToDomainFund(model)
	return &fund, nil
}

func (r *PgxFundRepository) ListFundsByEntity(ctx context.Context, entityID string) ([]domain.Fund, error) {
	query := `SELECT ` + fundColumns + ` FROM funds WHERE entity_id = $1 ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds for entity %s: %w", entityID, err)
	}
	modelFunds, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Fund])
	if err != nil {
		return nil, fmt.Errorf("failed to collect fund rows: %w", err)
	}

	funds := make([]domain.Fund, len(modelFunds))
	for i, m := range modelFunds {
		funds[i] = mapping.ToDomainFund(m)
	}
	return funds, nil
}

func (r *PgxFundRepository) FindFundsByIDs(ctx context.Context, fundIDs []string) ([]domain.Fund, error) {
	if len(fundIDs) == 0 {
		return []domain.Fund{}, nil
	}
	query := `SELECT ` + fundColumns + ` FROM funds WHERE fund_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, fundIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds by IDs: %w", err)
	}
	modelFunds, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Fund])
	if err != nil {
		return nil, fmt.Errorf("failed to collect fund rows: %w", err)
	}

	funds := make([]domain.Fund, len(modelFunds))
	for i, m := range modelFunds {
		funds[i] = mapping.ToDomainFund(m)
	}
	return funds, nil
}

func (r *PgxFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	model := mapping.ToModelFund(fund)

	query := `
		UPDATE funds
		SET name = $2, description = $3, status = $4, last_updated_at = $5
		WHERE fund_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		model.FundID,
		model.Name,
		model.Description,
		model.Status,
		model.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund %s: %w", model.FundID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("fund %s not found", model.FundID))
	}
	return nil
}

func (r *PgxFundRepository) DeleteFund(ctx context.Context, fundID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM funds WHERE fund_id = $1;`, fundID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: fund %s is referenced by journal lines", apperrors.ErrHasDependents, fundID)
		}
		return fmt.Errorf("failed to delete fund %s: %w", fundID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("fund %s not found", fundID))
	}
	return nil
}
