package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/services"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
	"github.com/nonprofit-suite/fund_accounting_app/internal/middleware"
)

// entityHandler handles HTTP requests related to entities.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

func newEntityHandler(es portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{entityService: es}
}

// registerEntityRoutes registers routes related to entities.
func registerEntityRoutes(rg *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := newEntityHandler(entityService)

	entities := rg.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("", h.listEntities)
		entities.GET("/:entityID", h.getEntityByID)
		entities.GET("/:entityID/children", h.getChildEntities)
		entities.PUT("/:entityID", h.updateEntity)
		entities.DELETE("/:entityID", h.deleteEntity)
	}
}

// createEntity godoc
// @Summary Create a new entity
// @Description Adds a new organizational entity, optionally linked to a parent
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} domain.Entity
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Entity code already exists"
// @Router /entities [post]
func (h *entityHandler) createEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), req)
	if err != nil {
		logger.Warn("Failed to create entity", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

// listEntities godoc
// @Summary List entities
// @Tags entities
// @Produce  json
// @Success 200 {array} domain.Entity
// @Router /entities [get]
func (h *entityHandler) listEntities(c *gin.Context) {
	entities, err := h.entityService.ListEntities(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list entities", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

// getEntityByID godoc
// @Summary Get an entity by ID
// @Tags entities
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {object} domain.Entity
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /entities/{entityID} [get]
func (h *entityHandler) getEntityByID(c *gin.Context) {
	entity, err := h.entityService.GetEntityByID(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// getChildEntities godoc
// @Summary List the direct children of an entity
// @Tags entities
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 200 {array} domain.Entity
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /entities/{entityID}/children [get]
func (h *entityHandler) getChildEntities(c *gin.Context) {
	children, err := h.entityService.GetChildEntities(c.Request.Context(), c.Param("entityID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

// updateEntity godoc
// @Summary Update an entity
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Param   entity body dto.UpdateEntityRequest true "Fields to update"
// @Success 200 {object} domain.Entity
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /entities/{entityID} [put]
func (h *entityHandler) updateEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entity, err := h.entityService.UpdateEntity(c.Request.Context(), c.Param("entityID"), req)
	if err != nil {
		logger.Warn("Failed to update entity", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// deleteEntity godoc
// @Summary Delete an entity
// @Description Deletes an entity that has no children, accounts, funds or journal entries
// @Tags entities
// @Produce  json
// @Param   entityID path string true "Entity ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Entity not found"
// @Failure 409 {object} map[string]string "Entity has dependents"
// @Router /entities/{entityID} [delete]
func (h *entityHandler) deleteEntity(c *gin.Context) {
	if err := h.entityService.DeleteEntity(c.Request.Context(), c.Param("entityID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
