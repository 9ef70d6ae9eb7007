package repositories

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// EntityDependents counts the rows still referencing an entity. Deletion is
// refused while any count is nonzero.
type EntityDependents struct {
	ChildEntities  int64
	Accounts       int64
	Funds          int64
	JournalEntries int64
}

// Any reports whether at least one dependent row exists.
func (d EntityDependents) Any() bool {
	return d.ChildEntities > 0 || d.Accounts > 0 || d.Funds > 0 || d.JournalEntries > 0
}

// EntityRepositoryFacade defines persistence operations for entities.
type EntityRepositoryFacade interface {
	SaveEntity(ctx context.Context, entity domain.Entity) error
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
	FindEntityByCode(ctx context.Context, code string) (*domain.Entity, error)
	ListEntities(ctx context.Context) ([]domain.Entity, error)
	FindChildEntities(ctx context.Context, parentEntityID string) ([]domain.Entity, error)
	UpdateEntity(ctx context.Context, entity domain.Entity) error
	DeleteEntity(ctx context.Context, entityID string) error
	CountEntityDependents(ctx context.Context, entityID string) (EntityDependents, error)
}
