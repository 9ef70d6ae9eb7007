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

// accountService manages an entity's chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	entitySvc   portssvc.EntitySvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, entitySvc portssvc.EntitySvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, entitySvc: entitySvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.entitySvc.GetEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity for account: %w", err)
	}
	if entity.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: entity %s is inactive", apperrors.ErrValidation, entityID)
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, entityID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %q already in use within entity", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		EntityID:    entityID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		Description: req.Description,
		Status:      domain.StatusActive,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *accountService) ListAccountsByEntity(ctx context.Context, entityID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for update: %w", err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.Status != nil {
		account.Status = domain.RecordStatus(*req.Status)
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return fmt.Errorf("failed to get account for delete: %w", err)
	}

	refs, err := s.accountRepo.CountLineReferences(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count account references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: account is referenced by %d journal lines", apperrors.ErrHasDependents, refs)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
