package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// fundService manages restricted and unrestricted funds within an entity.
type fundService struct {
	fundRepo  portsrepo.FundRepositoryFacade
	entitySvc portssvc.EntitySvcFacade
}

// NewFundService creates a new FundService.
func NewFundService(fundRepo portsrepo.FundRepositoryFacade, entitySvc portssvc.EntitySvcFacade) portssvc.FundSvcFacade {
	return &fundService{fundRepo: fundRepo, entitySvc: entitySvc}
}

var _ portssvc.FundSvcFacade = (*fundService)(nil)

func (s *fundService) CreateFund(ctx context.Context, entityID string, req dto.CreateFundRequest) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.entitySvc.GetEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity for fund: %w", err)
	}
	if entity.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: entity %s is inactive", apperrors.ErrValidation, entityID)
	}

	if existing, err := s.fundRepo.FindFundByCode(ctx, entityID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: fund code %q already in use within entity", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:      uuid.NewString(),
		EntityID:    entityID,
		Code:        req.Code,
		Name:        req.Name,
		FundType:    domain.FundType(req.FundType),
		Description: req.Description,
		Status:      domain.StatusActive,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		logger.Error("Failed to save fund", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to create fund: %w", err)
	}
	return &fund, nil
}

func (s *fundService) GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund: %w", err)
	}
	return fund, nil
}

func (s *fundService) ListFundsByEntity(ctx context.Context, entityID string) ([]domain.Fund, error) {
	funds, err := s.fundRepo.ListFundsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	if funds == nil {
		return []domain.Fund{}, nil
	}
	return funds, nil
}

func (s *fundService) UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest) (*domain.Fund, error) {
	fund, err := s.fundRepo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fund for update: %w", err)
	}

	if req.Name != nil {
		fund.Name = *req.Name
	}
	if req.Description != nil {
		fund.Description = *req.Description
	}
	if req.Status != nil {
		fund.Status = domain.RecordStatus(*req.Status)
	}
	fund.LastUpdatedAt = time.Now().UTC()

	if err := s.fundRepo.UpdateFund(ctx, *fund); err != nil {
		return nil, fmt.Errorf("failed to update fund: %w", err)
	}
	return fund, nil
}

func (s *fundService) DeleteFund(ctx context.Context, fundID string) error {
	if _, err := s.fundRepo.FindFundByID(ctx, fundID); err != nil {
		return fmt.Errorf("failed to get fund for delete: %w", err)
	}
	if err := s.fundRepo.DeleteFund(ctx, fundID); err != nil {
		return fmt.Errorf("failed to delete fund: %w", err)
	}
	return nil
}
