package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/handlers"
	"github.com/nonprofit-suite/fund_accounting_app/pkg/config"
)

// --- Mock EntityService ---
type MockEntityService struct {
	mock.Mock
}

var _ portssvc.EntitySvcFacade = (*MockEntityService)(nil)

func (m *MockEntityService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest) (*domain.Entity, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityService) GetEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityService) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}

func (m *MockEntityService) GetChildEntities(ctx context.Context, entityID string) ([]domain.Entity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}

func (m *MockEntityService) UpdateEntity(ctx context.Context, entityID string, req dto.UpdateEntityRequest) (*domain.Entity, error) {
	args := m.Called(ctx, entityID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityService) DeleteEntity(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

type EntityHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockEntitySvc *MockEntityService
}

func (s *EntityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockEntitySvc = new(MockEntityService)

	s.router = gin.New()
	cfg := &config.Config{IsProduction: true}
	provider := &portssvc.ServiceProvider{EntitySvc: s.mockEntitySvc}
	handlers.RegisterRoutes(s.router, cfg, provider, nil)
}

func (s *EntityHandlerTestSuite) serve(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *EntityHandlerTestSuite) TestCreateEntity_Created() {
	reqBody := dto.CreateEntityRequest{Name: "Main Org", Code: "MAIN"}
	created := &domain.Entity{
		EntityID:        uuid.NewString(),
		Name:            "Main Org",
		Code:            "MAIN",
		FiscalYearStart: "01-01",
		BaseCurrency:    "USD",
		Status:          domain.StatusActive,
	}

	s.mockEntitySvc.On("CreateEntity", mock.Anything, reqBody).Return(created, nil).Once()

	w := s.serve(http.MethodPost, "/api/v1/entities", reqBody)

	s.Equal(http.StatusCreated, w.Code)
	var got domain.Entity
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(created.EntityID, got.EntityID)
	s.mockEntitySvc.AssertExpectations(s.T())
}

func (s *EntityHandlerTestSuite) TestCreateEntity_MissingNameRejected() {
	w := s.serve(http.MethodPost, "/api/v1/entities", map[string]string{"code": "MAIN"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockEntitySvc.AssertNotCalled(s.T(), "CreateEntity", mock.Anything, mock.Anything)
}

func (s *EntityHandlerTestSuite) TestCreateEntity_DuplicateCodeConflict() {
	reqBody := dto.CreateEntityRequest{Name: "Main Org", Code: "MAIN"}

	s.mockEntitySvc.On("CreateEntity", mock.Anything, reqBody).
		Return(nil, fmt.Errorf("%w: entity code %q already in use", apperrors.ErrDuplicate, "MAIN")).Once()

	w := s.serve(http.MethodPost, "/api/v1/entities", reqBody)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *EntityHandlerTestSuite) TestGetEntityByID_NotFound() {
	entityID := uuid.NewString()

	s.mockEntitySvc.On("GetEntityByID", mock.Anything, entityID).
		Return(nil, fmt.Errorf("failed to get entity: %w", apperrors.ErrNotFound)).Once()

	w := s.serve(http.MethodGet, "/api/v1/entities/"+entityID, nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EntityHandlerTestSuite) TestDeleteEntity_DependentsConflict() {
	entityID := uuid.NewString()

	s.mockEntitySvc.On("DeleteEntity", mock.Anything, entityID).
		Return(fmt.Errorf("%w: entity has 1 child entities, 2 accounts, 0 funds, 3 journal entries", apperrors.ErrHasDependents)).Once()

	w := s.serve(http.MethodDelete, "/api/v1/entities/"+entityID, nil)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *EntityHandlerTestSuite) TestDeleteEntity_NoContent() {
	entityID := uuid.NewString()

	s.mockEntitySvc.On("DeleteEntity", mock.Anything, entityID).Return(nil).Once()

	w := s.serve(http.MethodDelete, "/api/v1/entities/"+entityID, nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *EntityHandlerTestSuite) TestListEntities_OK() {
	list := []domain.Entity{
		{EntityID: uuid.NewString(), Name: "Main Org", Code: "MAIN", Status: domain.StatusActive},
		{EntityID: uuid.NewString(), Name: "Chapter", Code: "CHAP", Status: domain.StatusActive},
	}

	s.mockEntitySvc.On("ListEntities", mock.Anything).Return(list, nil).Once()

	w := s.serve(http.MethodGet, "/api/v1/entities", nil)

	s.Equal(http.StatusOK, w.Code)
	var got []domain.Entity
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Len(got, 2)
}

func TestEntityHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EntityHandlerTestSuite))
}
