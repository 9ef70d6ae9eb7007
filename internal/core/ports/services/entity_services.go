package services

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

// EntitySvcFacade manages organizational entities and their hierarchy.
type EntitySvcFacade interface {
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest) (*domain.Entity, error)
	GetEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
	ListEntities(ctx context.Context) ([]domain.Entity, error)
	GetChildEntities(ctx context.Context, entityID string) ([]domain.Entity, error)
	UpdateEntity(ctx context.Context, entityID string, req dto.UpdateEntityRequest) (*domain.Entity, error)
	DeleteEntity(ctx context.Context, entityID string) error
}
