package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createLineRequest struct {
	Code      string        `json:"code" binding:"required"`
	Name      string        `json:"name" binding:"required"`
	FactoryID *int64        `json:"factoryId"`
	Status    *model.Status `json:"status"`
}

// CreateLine handles POST /api/lines.
func (h *Handler) CreateLine(c *gin.Context) {
	var req createLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	line, err := h.store.CreateLine(c.Request.Context(), store.CreateLineParams{
		Code:      req.Code,
		Name:      req.Name,
		FactoryID: req.FactoryID,
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

type updateLineRequest struct {
	Code      *string       `json:"code"`
	Name      *string       `json:"name"`
	FactoryID nullableID    `json:"factoryId"`
	Status    *model.Status `json:"status"`
}

// UpdateLine handles PUT /api/lines/:id.
func (h *Handler) UpdateLine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	line, err := h.store.UpdateLine(c.Request.Context(), id, store.UpdateLineParams{
		Code:         req.Code,
		Name:         req.Name,
		FactoryID:    req.FactoryID.ID,
		FactoryIDSet: req.FactoryID.Set,
		Status:       req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// GetLine handles GET /api/lines/:id.
func (h *Handler) GetLine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	line, err := h.store.GetLine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// ListLines handles GET /api/lines.
func (h *Handler) ListLines(c *gin.Context) {
	lines, err := h.store.ListLines(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// DeleteLine handles DELETE /api/lines/:id.
func (h *Handler) DeleteLine(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteLine(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
