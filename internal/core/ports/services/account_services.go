package services

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

// AccountSvcFacade manages an entity's chart of accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccountsByEntity(ctx context.Context, entityID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// FundSvcFacade manages an entity's restricted and unrestricted funds.
type FundSvcFacade interface {
	CreateFund(ctx context.Context, entityID string, req dto.CreateFundRequest) (*domain.Fund, error)
	GetFundByID(ctx context.Context, fundID string) (*domain.Fund, error)
	ListFundsByEntity(ctx context.Context, entityID string) ([]domain.Fund, error)
	UpdateFund(ctx context.Context, fundID string, req dto.UpdateFundRequest) (*domain.Fund, error)
	DeleteFund(ctx context.Context, fundID string) error
}
