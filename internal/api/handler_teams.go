package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

type createTeamRequest struct {
	Code             string        `json:"code" binding:"required"`
	Name             string        `json:"name" binding:"required"`
	StationID        *int64        `json:"stationId"`
	ProductionLineID *int64        `json:"productionLineId"`
	Status           *model.Status `json:"status"`
	MemberIDs        []int64       `json:"memberIds"`
}

// CreateTeam handles POST /api/teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	team, err := h.store.CreateTeam(c.Request.Context(), store.CreateTeamParams{
		Code:             req.Code,
		Name:             req.Name,
		StationID:        req.StationID,
		ProductionLineID: req.ProductionLineID,
		Status:           req.Status,
		MemberIDs:        req.MemberIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

type updateTeamRequest struct {
	Code             *string       `json:"code"`
	Name             *string       `json:"name"`
	StationID        nullableID    `json:"stationId"`
	ProductionLineID nullableID    `json:"productionLineId"`
	Status           *model.Status `json:"status"`
	ForceUnbind      bool          `json:"forceUnbind"`
	MemberIDs        *[]int64      `json:"memberIds"`
}

// UpdateTeam handles PUT /api/teams/:id.
func (h *Handler) UpdateTeam(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	team, err := h.store.UpdateTeam(c.Request.Context(), id, store.UpdateTeamParams{
		Code:             req.Code,
		Name:             req.Name,
		StationID:        req.StationID.ID,
		StationIDSet:     req.StationID.Set,
		ProductionLineID: req.ProductionLineID.ID,
		LineIDSet:        req.ProductionLineID.Set,
		Status:           req.Status,
		ForceUnbind:      req.ForceUnbind,
		MemberIDs:        req.MemberIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

type bindTeamsRequest struct {
	TeamIDs          []int64 `json:"teamIds" binding:"required"`
	StationID        *int64  `json:"stationId"`
	ProductionLineID *int64  `json:"productionLineId"`
}

// BindTeams handles POST /api/teams/bind.
func (h *Handler) BindTeams(c *gin.Context) {
	var req bindTeamsRequest
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
		err = h.store.BindTeamsToStation(c.Request.Context(), req.TeamIDs, *req.StationID)
	} else {
		err = h.store.BindTeamsToLine(c.Request.Context(), req.TeamIDs, *req.ProductionLineID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bound": len(req.TeamIDs)})
}

// UnbindTeam handles POST /api/teams/:id/unbind.
func (h *Handler) UnbindTeam(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	team, err := h.store.UnbindTeam(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// GetTeam handles GET /api/teams/:id.
func (h *Handler) GetTeam(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	team, err := h.store.GetTeam(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// ListTeams handles GET /api/teams.
func (h *Handler) ListTeams(c *gin.Context) {
	teams, err := h.store.ListTeams(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// DeleteTeam handles DELETE /api/teams/:id. Members are released in the
// same transaction as the delete.
func (h *Handler) DeleteTeam(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTeam(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
