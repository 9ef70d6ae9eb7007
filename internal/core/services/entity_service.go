package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

var fiscalYearStartPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// entityService manages organizational entities and their parent/child links.
type entityService struct {
	entityRepo portsrepo.EntityRepositoryFacade
}

// NewEntityService creates a new EntityService.
func NewEntityService(entityRepo portsrepo.EntityRepositoryFacade) portssvc.EntitySvcFacade {
	return &entityService{entityRepo: entityRepo}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

func (s *entityService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest) (*domain.Entity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fiscalYearStart := req.FiscalYearStart
	if fiscalYearStart == "" {
		fiscalYearStart = "01-01"
	}
	if !fiscalYearStartPattern.MatchString(fiscalYearStart) {
		return nil, fmt.Errorf("%w: fiscalYearStart must be MM-DD, got %q", apperrors.ErrValidation, fiscalYearStart)
	}

	baseCurrency := req.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = "USD"
	}

	if req.ParentEntityID != nil {
		parent, err := s.entityRepo.FindEntityByID(ctx, *req.ParentEntityID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent entity: %w", err)
		}
		if parent.Status != domain.StatusActive {
			return nil, fmt.Errorf("%w: parent entity %s is inactive", apperrors.ErrValidation, parent.EntityID)
		}
	}

	if existing, err := s.entityRepo.FindEntityByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: entity code %q already in use", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	entity := domain.Entity{
		EntityID:        uuid.NewString(),
		Name:            req.Name,
		Code:            req.Code,
		ParentEntityID:  req.ParentEntityID,
		IsConsolidated:  req.IsConsolidated,
		FiscalYearStart: fiscalYearStart,
		BaseCurrency:    baseCurrency,
		Status:          domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
		logger.Error("Failed to save entity", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}
	return &entity, nil
}

func (s *entityService) GetEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

func (s *entityService) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	entities, err := s.entityRepo.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	if entities == nil {
		return []domain.Entity{}, nil
	}
	return entities, nil
}

func (s *entityService) GetChildEntities(ctx context.Context, entityID string) ([]domain.Entity, error) {
	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	children, err := s.entityRepo.FindChildEntities(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child entities: %w", err)
	}
	if children == nil {
		return []domain.Entity{}, nil
	}
	return children, nil
}

func (s *entityService) UpdateEntity(ctx context.Context, entityID string, req dto.UpdateEntityRequest) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity for update: %w", err)
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.ParentEntityID != nil {
		if err := s.validateParentLink(ctx, entityID, *req.ParentEntityID); err != nil {
			return nil, err
		}
		entity.ParentEntityID = req.ParentEntityID
	}
	if req.IsConsolidated != nil {
		entity.IsConsolidated = *req.IsConsolidated
	}
	if req.FiscalYearStart != nil {
		if !fiscalYearStartPattern.MatchString(*req.FiscalYearStart) {
			return nil, fmt.Errorf("%w: fiscalYearStart must be MM-DD, got %q", apperrors.ErrValidation, *req.FiscalYearStart)
		}
		entity.FiscalYearStart = *req.FiscalYearStart
	}
	if req.BaseCurrency != nil {
		entity.BaseCurrency = *req.BaseCurrency
	}
	if req.Status != nil {
		entity.Status = domain.RecordStatus(*req.Status)
	}
	entity.LastUpdatedAt = time.Now().UTC()

	if err := s.entityRepo.UpdateEntity(ctx, *entity); err != nil {
		return nil, fmt.Errorf("failed to update entity: %w", err)
	}
	return entity, nil
}

// validateParentLink rejects self-parenting and any link that would close a
// cycle in the entity hierarchy. Walks the ancestor chain of the proposed parent.
func (s *entityService) validateParentLink(ctx context.Context, entityID, parentID string) error {
	if parentID == entityID {
		return fmt.Errorf("%w: entity cannot be its own parent", apperrors.ErrValidation)
	}
	seen := map[string]bool{entityID: true}
	current := parentID
	for current != "" {
		if seen[current] {
			return fmt.Errorf("%w: parent link would create a cycle through entity %s", apperrors.ErrValidation, current)
		}
		seen[current] = true
		ancestor, err := s.entityRepo.FindEntityByID(ctx, current)
		if err != nil {
			return fmt.Errorf("failed to resolve ancestor entity %s: %w", current, err)
		}
		if ancestor.ParentEntityID == nil {
			break
		}
		current = *ancestor.ParentEntityID
	}
	return nil
}

func (s *entityService) DeleteEntity(ctx context.Context, entityID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.entityRepo.FindEntityByID(ctx, entityID); err != nil {
		return fmt.Errorf("failed to get entity for delete: %w", err)
	}

	deps, err := s.entityRepo.CountEntityDependents(ctx, entityID)
	if err != nil {
		return fmt.Errorf("failed to count entity dependents: %w", err)
	}
	if deps.Any() {
		logger.Warn("Refusing to delete entity with dependents",
			slog.String("entity_id", entityID),
			slog.Int64("child_entities", deps.ChildEntities),
			slog.Int64("accounts", deps.Accounts),
			slog.Int64("funds", deps.Funds),
			slog.Int64("journal_entries", deps.JournalEntries))
		return fmt.Errorf("%w: entity has %d child entities, %d accounts, %d funds, %d journal entries",
			apperrors.ErrHasDependents, deps.ChildEntities, deps.Accounts, deps.Funds, deps.JournalEntries)
	}

	if err := s.entityRepo.DeleteEntity(ctx, entityID); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}
