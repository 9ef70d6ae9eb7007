package repositories

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// AccountRepositoryFacade defines persistence operations for accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, entityID string, code string) (*domain.Account, error)
	ListAccountsByEntity(ctx context.Context, entityID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	// DeleteAccount refuses with apperrors.ErrHasDependents while journal entry
	// lines still reference the account.
	DeleteAccount(ctx context.Context, accountID string) error
	CountLineReferences(ctx context.Context, accountID string) (int64, error)
}

// FundRepositoryFacade defines persistence operations for funds.
type FundRepositoryFacade interface {
	SaveFund(ctx context.Context, fund domain.Fund) error
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)
	FindFundByCode(ctx context.Context, entityID string, code string) (*domain.Fund, error)
	ListFundsByEntity(ctx context.Context, entityID string) ([]domain.Fund, error)
	FindFundsByIDs(ctx context.Context, fundIDs []string) ([]domain.Fund, error)
	UpdateFund(ctx context.Context, fund domain.Fund) error
	// DeleteFund refuses with apperrors.ErrHasDependents while journal entry
	// lines still reference the fund.
	DeleteFund(ctx context.Context, fundID string) error
}
