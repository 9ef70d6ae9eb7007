package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockFundRepo    *MockFundRepository
	mockEntitySvc   *MockEntityService
	service         portssvc.JournalSvcFacade

	entity      domain.Entity
	cashAccount domain.Account
	revAccount  domain.Account
	fund        domain.Fund
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockFundRepo = new(MockFundRepository)
	s.mockEntitySvc = new(MockEntityService)
	s.service = services.NewJournalService(s.mockJournalRepo, s.mockAccountRepo, s.mockFundRepo, s.mockEntitySvc)

	entityID := uuid.NewString()
	s.entity = domain.Entity{
		EntityID: entityID,
		Name:     "Main Org",
		Code:     "MAIN",
		Status:   domain.StatusActive,
	}
	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		EntityID:    entityID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		Status:      domain.StatusActive,
	}
	s.revAccount = domain.Account{
		AccountID:   uuid.NewString(),
		EntityID:    entityID,
		Code:        "4000",
		Name:        "Donations",
		AccountType: domain.Revenue,
		Status:      domain.StatusActive,
	}
	s.fund = domain.Fund{
		FundID:   uuid.NewString(),
		EntityID: entityID,
		Code:     "GEN",
		Name:     "General Fund",
		FundType: domain.Unrestricted,
		Status:   domain.StatusActive,
	}
}

func (s *JournalServiceTestSuite) balancedRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "JE-100",
		Description:     "Donation received",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: s.cashAccount.AccountID, FundID: &s.fund.FundID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: s.revAccount.AccountID, FundID: &s.fund.FundID, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_PostedSuccess() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockEntitySvc.On("GetEntityByID", ctx, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.revAccount.AccountID).Return(&s.revAccount, nil).Once()
	s.mockFundRepo.On("FindFundByID", ctx, s.fund.FundID).Return(&s.fund, nil).Once()

	var savedAccountChanges, savedFundChanges portsrepo.BalanceChanges
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedAccountChanges = args.Get(3).(portsrepo.BalanceChanges)
			savedFundChanges = args.Get(4).(portsrepo.BalanceChanges)
		}).Return(nil).Once()

	entry, err := s.service.CreateJournalEntry(ctx, s.entity.EntityID, req)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal(domain.Posted, entry.Status)
	s.Equal("JE-100", entry.ReferenceNumber)
	s.True(entry.TotalAmount.Equal(decimal.NewFromInt(100)))
	s.Len(entry.Lines, 2)

	// Asset is debit normal: +100. Revenue is credit normal: +100.
	s.True(savedAccountChanges[s.cashAccount.AccountID].Equal(decimal.NewFromInt(100)))
	s.True(savedAccountChanges[s.revAccount.AccountID].Equal(decimal.NewFromInt(100)))
	// Funds are credit normal: credit 100, debit 100 -> net zero.
	s.True(savedFundChanges[s.fund.FundID].Equal(decimal.Zero))

	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_UnbalancedPostedRejected() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[1].CreditAmount = decimal.NewFromInt(90)

	s.mockEntitySvc.On("GetEntityByID", ctx, s.entity.EntityID).Return(&s.entity, nil).Once()

	entry, err := s.service.CreateJournalEntry(ctx, s.entity.EntityID, req)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, apperrors.ErrUnbalanced)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournalEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_UnbalancedDraftAllowed() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Status = string(domain.Draft)
	req.Lines[1].CreditAmount = decimal.NewFromInt(90)

	s.mockEntitySvc.On("GetEntityByID", ctx, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.revAccount.AccountID).Return(&s.revAccount, nil).Once()
	s.mockFundRepo.On("FindFundByID", ctx, s.fund.FundID).Return(&s.fund, nil).Once()

	// Drafts carry no balance changes.
	s.mockJournalRepo.On("SaveJournalEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalEntryLine"), portsrepo.BalanceChanges(nil), portsrepo.BalanceChanges(nil)).Return(nil).Once()

	entry, err := s.service.CreateJournalEntry(ctx, s.entity.EntityID, req)

	s.Require().NoError(err)
	s.Equal(domain.Draft, entry.Status)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_TwoSidedLineRejected() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Lines[0].CreditAmount = decimal.NewFromInt(5)

	s.mockEntitySvc.On("GetEntityByID", ctx, s.entity.EntityID).Return(&s.entity, nil).Once()

	_, err := s.service.CreateJournalEntry(ctx, s.entity.EntityID, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalanced)
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_ForeignAccountRejected() {
	ctx := context.Background()
	req := s.balancedRequest()

	foreign := s.cashAccount
	foreign.EntityID = uuid.NewString()

	s.mockEntitySvc.On("GetEntityByID", ctx, s.entity.EntityID).Return(&s.entity, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&foreign, nil).Once()

	_, err := s.service.CreateJournalEntry(ctx, s.entity.EntityID, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestCreateJournalEntry_InactiveEntityRejected() {
	ctx := context.Background()
	inactive := s.entity
	inactive.Status = domain.StatusInactive

	s.mockEntitySvc.On("GetEntityByID", ctx, inactive.EntityID).Return(&inactive, nil).Once()

	_, err := s.service.CreateJournalEntry(ctx, inactive.EntityID, s.balancedRequest())

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *JournalServiceTestSuite) TestPostJournalEntry_Success() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	draft := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Draft,
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), JournalEntryID: journalEntryID, AccountID: s.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(50)},
		{LineID: uuid.NewString(), JournalEntryID: journalEntryID, AccountID: s.revAccount.AccountID, CreditAmount: decimal.NewFromInt(50)},
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(draft, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalEntryID", ctx, journalEntryID).Return(lines, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.revAccount.AccountID).Return(&s.revAccount, nil).Once()
	s.mockJournalRepo.On("SetJournalEntryStatus", ctx, journalEntryID, domain.Posted, mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := s.service.PostJournalEntry(ctx, journalEntryID)

	s.Require().NoError(err)
	s.Equal(domain.Posted, entry.Status)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestPostJournalEntry_UnbalancedDraftRefused() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	draft := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Draft,
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), AccountID: s.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(50)},
		{LineID: uuid.NewString(), AccountID: s.revAccount.AccountID, CreditAmount: decimal.NewFromInt(40)},
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(draft, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalEntryID", ctx, journalEntryID).Return(lines, nil).Once()

	_, err := s.service.PostJournalEntry(ctx, journalEntryID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnbalanced)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SetJournalEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostJournalEntry_AlreadyPostedRefused() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	posted := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Posted,
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(posted, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalEntryID", ctx, journalEntryID).Return([]domain.JournalEntryLine{}, nil).Once()

	_, err := s.service.PostJournalEntry(ctx, journalEntryID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestVoidJournalEntry_PostedReversesBalances() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	posted := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Posted,
	}
	lines := []domain.JournalEntryLine{
		{LineID: uuid.NewString(), AccountID: s.cashAccount.AccountID, FundID: &s.fund.FundID, DebitAmount: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), AccountID: s.revAccount.AccountID, FundID: &s.fund.FundID, CreditAmount: decimal.NewFromInt(100)},
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(posted, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalEntryID", ctx, journalEntryID).Return(lines, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.cashAccount.AccountID).Return(&s.cashAccount, nil).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, s.revAccount.AccountID).Return(&s.revAccount, nil).Once()

	var accountChanges portsrepo.BalanceChanges
	s.mockJournalRepo.On("SetJournalEntryStatus", ctx, journalEntryID, domain.Void, mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			accountChanges = args.Get(3).(portsrepo.BalanceChanges)
		}).Return(nil).Once()

	entry, err := s.service.VoidJournalEntry(ctx, journalEntryID)

	s.Require().NoError(err)
	s.Equal(domain.Void, entry.Status)
	// Posting added +100 to the asset account; void must subtract it.
	s.True(accountChanges[s.cashAccount.AccountID].Equal(decimal.NewFromInt(-100)))
	s.True(accountChanges[s.revAccount.AccountID].Equal(decimal.NewFromInt(-100)))
}

func (s *JournalServiceTestSuite) TestVoidJournalEntry_VoidIsTerminal() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	void := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Void,
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(void, nil).Once()
	s.mockJournalRepo.On("FindLinesByJournalEntryID", ctx, journalEntryID).Return([]domain.JournalEntryLine{}, nil).Once()

	_, err := s.service.VoidJournalEntry(ctx, journalEntryID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *JournalServiceTestSuite) TestUpdateDraftJournalEntry_PostedRefused() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	posted := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Posted,
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(posted, nil).Once()

	newDesc := "edited"
	_, err := s.service.UpdateDraftJournalEntry(ctx, journalEntryID, dto.UpdateJournalEntryRequest{Description: &newDesc})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "UpdateDraftJournalEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestDeleteDraftJournalEntry_PostedRefused() {
	ctx := context.Background()
	journalEntryID := uuid.NewString()

	posted := &domain.JournalEntry{
		JournalEntryID: journalEntryID,
		EntityID:       s.entity.EntityID,
		Status:         domain.Posted,
	}

	s.mockJournalRepo.On("FindJournalEntryByID", ctx, journalEntryID).Return(posted, nil).Once()

	err := s.service.DeleteDraftJournalEntry(ctx, journalEntryID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "DeleteJournalEntry", mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
