package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createStaffRequest struct {
	Code   string        `json:"code" binding:"required"`
	Name   string        `json:"name" binding:"required"`
	Role   string        `json:"role"`
	TeamID *int64        `json:"teamId"`
	Status *model.Status `json:"status"`
}

// CreateStaff handles POST /api/staff.
func (h *Handler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	staff, err := h.store.CreateStaff(c.Request.Context(), store.CreateStaffParams{
		Code:   req.Code,
		Name:   req.Name,
		Role:   req.Role,
		TeamID: req.TeamID,
		Status: req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

type updateStaffRequest struct {
	Code        *string       `json:"code"`
	Name        *string       `json:"name"`
	Role        *string       `json:"role"`
	TeamID      nullableID    `json:"teamId"`
	Status      *model.Status `json:"status"`
	ForceUnbind bool          `json:"forceUnbind"`
}

// UpdateStaff handles PUT /api/staff/:id.
func (h *Handler) UpdateStaff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	staff, err := h.store.UpdateStaff(c.Request.Context(), id, store.UpdateStaffParams{
		Code:        req.Code,
		Name:        req.Name,
		Role:        req.Role,
		TeamID:      req.TeamID.ID,
		TeamIDSet:   req.TeamID.Set,
		Status:      req.Status,
		ForceUnbind: req.ForceUnbind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// GetStaff handles GET /api/staff/:id.
func (h *Handler) GetStaff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	staff, err := h.store.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// ListStaff handles GET /api/staff.
func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := h.store.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

// DeleteStaff handles DELETE /api/staff/:id.
func (h *Handler) DeleteStaff(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteStaff(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
