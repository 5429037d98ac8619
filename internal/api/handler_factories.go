package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createFactoryRequest struct {
	Code    string        `json:"code" binding:"required"`
	Name    string        `json:"name" binding:"required"`
	Address string        `json:"address"`
	Status  *model.Status `json:"status"`
}

// CreateFactory handles POST /api/factories.
func (h *Handler) CreateFactory(c *gin.Context) {
	var req createFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	factory, err := h.store.CreateFactory(c.Request.Context(), store.CreateFactoryParams{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Status:  req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, factory)
}

type updateFactoryRequest struct {
	Code    *string       `json:"code"`
	Name    *string       `json:"name"`
	Address *string       `json:"address"`
	Status  *model.Status `json:"status"`
}

// UpdateFactory handles PUT /api/factories/:id.
func (h *Handler) UpdateFactory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	factory, err := h.store.UpdateFactory(c.Request.Context(), id, store.UpdateFactoryParams{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Status:  req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, factory)
}

// GetFactory handles GET /api/factories/:id.
func (h *Handler) GetFactory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	factory, err := h.store.GetFactory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, factory)
}

// ListFactories handles GET /api/factories.
func (h *Handler) ListFactories(c *gin.Context) {
	factories, err := h.store.ListFactories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, factories)
}

// DeleteFactory handles DELETE /api/factories/:id.
func (h *Handler) DeleteFactory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFactory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
