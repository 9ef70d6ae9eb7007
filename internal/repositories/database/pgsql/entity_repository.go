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

const entityColumns = `entity_id, name, code, parent_entity_id, is_consolidated, fiscal_year_start, base_currency, status, created_at, last_updated_at`

type PgxEntityRepository struct {
	BaseRepository
}

// newPgxEntityRepository creates a new repository for entity data.
func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	model := mapping.ToModelEntity(entity)

	query := `
		INSERT INTO entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.EntityID,
		model.Name,
		model.Code,
		model.ParentEntityID,
		model.IsConsolidated,
		model.FiscalYearStart,
		model.BaseCurrency,
		model.Status,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entity with code %s already exists", apperrors.ErrDuplicate, model.Code)
		}
		return fmt.Errorf("failed to save entity %s: %w", model.EntityID, err)
	}
	return nil
}

func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE entity_id = $1;`

	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity %s: %w", entityID, err)
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("entity %s not found", entityID))
		}
		return nil, fmt.Errorf("failed to find entity by ID %s: %w", entityID, err)
	}

	entity := mapping.ToDomainEntity(model)
	return &entity, nil
}

func (r *PgxEntityRepository) FindEntityByCode(ctx context.Context, code string) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE code = $1;`

	rows, err := r.Pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity by code %s: %w", code, err)
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("entity with code %s not found", code))
		}
		return nil, fmt.Errorf("failed to find entity by code %s: %w", code, err)
	}

	entity := mapping.ToDomainEntity(model)
	return &entity, nil
}

func (r *PgxEntityRepository) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	modelEntities, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		return nil, fmt.Errorf("failed to collect entity rows: %w", err)
	}

	entities := make([]domain.Entity, len(modelEntities))
	for i, m := range modelEntities {
		entities[i] = mapping.ToDomainEntity(m)
	}
	return entities, nil
}

func (r *PgxEntityRepository) FindChildEntities(ctx context.Context, entityID string) ([]domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE parent_entity_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child entities of %s: %w", entityID, err)
	}
	modelEntities, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		return nil, fmt.Errorf("failed to collect child entity rows: %w", err)
	}

	entities := make([]domain.Entity, len(modelEntities))
	for i, m := range modelEntities {
		entities[i] = mapping.ToDomainEntity(m)
	}
	return entities, nil
}

func (r *PgxEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	model := mapping.ToModelEntity(entity)

	query := `
		UPDATE entities
		SET name = $2, parent_entity_id = $3, is_consolidated = $4, fiscal_year_start = $5,
		    base_currency = $6, status = $7, last_updated_at = $8
		WHERE entity_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		model.EntityID,
		model.Name,
		model.ParentEntityID,
		model.IsConsolidated,
		model.FiscalYearStart,
		model.BaseCurrency,
		model.Status,
		model.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update entity %s: %w", model.EntityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("entity %s not found", model.EntityID))
	}
	return nil
}

func (r *PgxEntityRepository) DeleteEntity(ctx context.Context, entityID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM entities WHERE entity_id = $1;`, entityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // Foreign key violation
			return fmt.Errorf("%w: entity %s is still referenced", apperrors.ErrHasDependents, entityID)
		}
		return fmt.Errorf("failed to delete entity %s: %w", entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("entity %s not found", entityID))
	}
	return nil
}

// CountEntityDependents reports how many child entities, accounts, funds and
// journal entries still reference the entity.
func (r *PgxEntityRepository) CountEntityDependents(ctx context.Context, entityID string) (portsrepo.EntityDependents, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM entities WHERE parent_entity_id = $1),
			(SELECT COUNT(*) FROM accounts WHERE entity_id = $1),
			(SELECT COUNT(*) FROM funds WHERE entity_id = $1),
			(SELECT COUNT(*) FROM journal_entries WHERE entity_id = $1);
	`
	var deps portsrepo.EntityDependents
	err := r.Pool.QueryRow(ctx, query, entityID).Scan(
		&deps.ChildEntities,
		&deps.Accounts,
		&deps.Funds,
		&deps.JournalEntries,
	)
	if err != nil {
		return portsrepo.EntityDependents{}, fmt.Errorf("failed to count dependents of entity %s: %w", entityID, err)
	}
	return deps, nil
}
