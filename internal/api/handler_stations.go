package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createStationRequest struct {
	Code             string        `json:"code" binding:"required"`
	Name             string        `json:"name" binding:"required"`
	ProductionLineID *int64        `json:"productionLineId"`
	Status           *model.Status `json:"status"`
}

// CreateStation handles POST /api/stations.
func (h *Handler) CreateStation(c *gin.Context) {
	var req createStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	station, err := h.store.CreateStation(c.Request.Context(), store.CreateStationParams{
		Code:             req.Code,
		Name:             req.Name,
		ProductionLineID: req.ProductionLineID,
		Status:           req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, station)
}

type updateStationRequest struct {
	Code             *string       `json:"code"`
	Name             *string       `json:"name"`
	ProductionLineID nullableID    `json:"productionLineId"`
	Status           *model.Status `json:"status"`
	ForceUnbind      bool          `json:"forceUnbind"`
}

// UpdateStation handles PUT /api/stations/:id.
func (h *Handler) UpdateStation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	station, err := h.store.UpdateStation(c.Request.Context(), id, store.UpdateStationParams{
		Code:             req.Code,
		Name:             req.Name,
		ProductionLineID: req.ProductionLineID.ID,
		LineIDSet:        req.ProductionLineID.Set,
		Status:           req.Status,
		ForceUnbind:      req.ForceUnbind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

type bindStationsRequest struct {
	StationIDs       []int64 `json:"stationIds" binding:"required"`
	ProductionLineID int64   `json:"productionLineId" binding:"required"`
}

// BindStations handles POST /api/stations/bind.
func (h *Handler) BindStations(c *gin.Context) {
	var req bindStationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}
	if err := h.store.BindStationsToLine(c.Request.Context(), req.StationIDs, req.ProductionLineID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bound": len(req.StationIDs)})
}

// UnbindStation handles POST /api/stations/:id/unbind.
func (h *Handler) UnbindStation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	station, err := h.store.UnbindStation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// GetStation handles GET /api/stations/:id.
func (h *Handler) GetStation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	station, err := h.store.GetStation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

// ListStations handles GET /api/stations.
func (h *Handler) ListStations(c *gin.Context) {
	stations, err := h.store.ListStations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// DeleteStation handles DELETE /api/stations/:id.
func (h *Handler) DeleteStation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteStation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
