package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

type EntityServiceTestSuite struct {
	suite.Suite
	mockEntityRepo *MockEntityRepository
	service        portssvc.EntitySvcFacade
}

func (s *EntityServiceTestSuite) SetupTest() {
	s.mockEntityRepo = new(MockEntityRepository)
	s.service = services.NewEntityService(s.mockEntityRepo)
}

func (s *EntityServiceTestSuite) TestCreateEntity_DefaultsApplied() {
	ctx := context.Background()
	req := dto.CreateEntityRequest{Name: "Main Org", Code: "MAIN"}

	s.mockEntityRepo.On("FindEntityByCode", ctx, "MAIN").Return(nil, apperrors.ErrNotFound).Once()
	s.mockEntityRepo.On("SaveEntity", ctx, mock.AnythingOfType("domain.Entity")).Return(nil).Once()

	entity, err := s.service.CreateEntity(ctx, req)

	s.Require().NoError(err)
	s.NotEmpty(entity.EntityID)
	s.Equal("01-01", entity.FiscalYearStart)
	s.Equal("USD", entity.BaseCurrency)
	s.Equal(domain.StatusActive, entity.Status)
	s.mockEntityRepo.AssertExpectations(s.T())
}

func (s *EntityServiceTestSuite) TestCreateEntity_DuplicateCodeRejected() {
	ctx := context.Background()
	req := dto.CreateEntityRequest{Name: "Main Org", Code: "MAIN"}

	existing := &domain.Entity{EntityID: uuid.NewString(), Code: "MAIN"}
	s.mockEntityRepo.On("FindEntityByCode", ctx, "MAIN").Return(existing, nil).Once()

	_, err := s.service.CreateEntity(ctx, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockEntityRepo.AssertNotCalled(s.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (s *EntityServiceTestSuite) TestCreateEntity_BadFiscalYearStart() {
	ctx := context.Background()
	req := dto.CreateEntityRequest{Name: "Main Org", Code: "MAIN", FiscalYearStart: "13-01"}

	_, err := s.service.CreateEntity(ctx, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *EntityServiceTestSuite) TestCreateEntity_InactiveParentRejected() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateEntityRequest{Name: "Chapter", Code: "CHAP", ParentEntityID: &parentID}

	parent := &domain.Entity{EntityID: parentID, Status: domain.StatusInactive}
	s.mockEntityRepo.On("FindEntityByID", ctx, parentID).Return(parent, nil).Once()

	_, err := s.service.CreateEntity(ctx, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *EntityServiceTestSuite) TestUpdateEntity_SelfParentRejected() {
	ctx := context.Background()
	entityID := uuid.NewString()

	entity := &domain.Entity{EntityID: entityID, Status: domain.StatusActive}
	s.mockEntityRepo.On("FindEntityByID", ctx, entityID).Return(entity, nil).Once()

	_, err := s.service.UpdateEntity(ctx, entityID, dto.UpdateEntityRequest{ParentEntityID: &entityID})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *EntityServiceTestSuite) TestUpdateEntity_CyclicParentRejected() {
	ctx := context.Background()
	entityID := uuid.NewString()
	childID := uuid.NewString()

	// child's ancestor chain leads back to the entity being updated.
	entity := &domain.Entity{EntityID: entityID, Status: domain.StatusActive}
	child := &domain.Entity{EntityID: childID, ParentEntityID: &entityID, Status: domain.StatusActive}

	s.mockEntityRepo.On("FindEntityByID", ctx, entityID).Return(entity, nil).Once()
	s.mockEntityRepo.On("FindEntityByID", ctx, childID).Return(child, nil).Once()

	_, err := s.service.UpdateEntity(ctx, entityID, dto.UpdateEntityRequest{ParentEntityID: &childID})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockEntityRepo.AssertNotCalled(s.T(), "UpdateEntity", mock.Anything, mock.Anything)
}

func (s *EntityServiceTestSuite) TestDeleteEntity_WithDependentsRefused() {
	ctx := context.Background()
	entityID := uuid.NewString()

	entity := &domain.Entity{EntityID: entityID, Status: domain.StatusActive}
	s.mockEntityRepo.On("FindEntityByID", ctx, entityID).Return(entity, nil).Once()
	s.mockEntityRepo.On("CountEntityDependents", ctx, entityID).Return(portsrepo.EntityDependents{Accounts: 3, JournalEntries: 12}, nil).Once()

	err := s.service.DeleteEntity(ctx, entityID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrHasDependents)
	s.mockEntityRepo.AssertNotCalled(s.T(), "DeleteEntity", mock.Anything, mock.Anything)
}

func (s *EntityServiceTestSuite) TestDeleteEntity_Clean() {
	ctx := context.Background()
	entityID := uuid.NewString()

	entity := &domain.Entity{EntityID: entityID, Status: domain.StatusActive}
	s.mockEntityRepo.On("FindEntityByID", ctx, entityID).Return(entity, nil).Once()
	s.mockEntityRepo.On("CountEntityDependents", ctx, entityID).Return(portsrepo.EntityDependents{}, nil).Once()
	s.mockEntityRepo.On("DeleteEntity", ctx, entityID).Return(nil).Once()

	err := s.service.DeleteEntity(ctx, entityID)

	s.Require().NoError(err)
	s.mockEntityRepo.AssertExpectations(s.T())
}

func TestEntityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntityServiceTestSuite))
}
