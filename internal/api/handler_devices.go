package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createDeviceRequest struct {
	Code             string        `json:"code" binding:"required"`
	Name             string        `json:"name" binding:"required"`
	Type             string        `json:"type"`
	StationID        *int64        `json:"stationId"`
	ProductionLineID *int64        `json:"productionLineId"`
	Status           *model.Status `json:"status"`
}

// CreateDevice handles POST /api/devices.
func (h *Handler) CreateDevice(c *gin.Context) {
	var req createDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	device, err := h.store.CreateDevice(c.Request.Context(), store.CreateDeviceParams{
		Code:             req.Code,
		Name:             req.Name,
		Type:             req.Type,
		StationID:        req.StationID,
		ProductionLineID: req.ProductionLineID,
		Status:           req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

type updateDeviceRequest struct {
	Code             *string       `json:"code"`
	Name             *string       `json:"name"`
	Type             *string       `json:"type"`
	StationID        nullableID    `json:"stationId"`
	ProductionLineID nullableID    `json:"productionLineId"`
	Status           *model.Status `json:"status"`
	ForceUnbind      bool          `json:"forceUnbind"`
}

// UpdateDevice handles PUT /api/devices/:id.
func (h *Handler) UpdateDevice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	device, err := h.store.UpdateDevice(c.Request.Context(), id, store.UpdateDeviceParams{
		Code:             req.Code,
		Name:             req.Name,
		Type:             req.Type,
		StationID:        req.StationID.ID,
		StationIDSet:     req.StationID.Set,
		ProductionLineID: req.ProductionLineID.ID,
		LineIDSet:        req.ProductionLineID.Set,
		Status:           req.Status,
		ForceUnbind:      req.ForceUnbind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

type bindDevicesRequest struct {
	DeviceIDs        []int64 `json:"deviceIds" binding:"required"`
	StationID        *int64  `json:"stationId"`
	ProductionLineID *int64  `json:"productionLineId"`
}

// BindDevices handles POST /api/devices/bind. The batch binds to exactly
// one target slot: a station or a production line.
func (h *Handler) BindDevices(c *gin.Context) {
	var req bindDevicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}
	if (req.StationID == nil) == (req.ProductionLineID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "exactly one of stationId and productionLineId is required"})
		return
	}

	var err error
	if req.StationID != nil {
		err = h.store.BindDevicesToStation(c.Request.Context(), req.DeviceIDs, *req.StationID)
	} else {
		err = h.store.BindDevicesToLine(c.Request.Context(), req.DeviceIDs, *req.ProductionLineID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bound": len(req.DeviceIDs)})
}

// UnbindDevice handles POST /api/devices/:id/unbind.
func (h *Handler) UnbindDevice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	device, err := h.store.UnbindDevice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// GetDevice handles GET /api/devices/:id.
func (h *Handler) GetDevice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	device, err := h.store.GetDevice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// ListDevices handles GET /api/devices.
func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.store.ListDevices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// DeleteDevice handles DELETE /api/devices/:id.
func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteDevice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDeviceMaintenance handles GET /api/devices/:id/maintenance.
func (h *Handler) ListDeviceMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	records, err := h.store.ListMaintenanceRecords(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
