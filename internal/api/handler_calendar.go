package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/store"
	"factory-resource-backend/internal/workday"
)

type setCalendarRequest struct {
	StartDate        string `json:"startDate" binding:"required"`
	EndDate          string `json:"endDate" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Note             string `json:"note"`
	ProductionLineID *int64 `json:"productionLineId"`
}

// SetCalendarRange handles POST /api/calendar. The range is replaced
// wholesale: posting DEFAULT clears overrides back to the weekday rule.
func (h *Handler) SetCalendarRange(c *gin.Context) {
	var req setCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}
	start, err := workday.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := workday.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "endDate must be YYYY-MM-DD"})
		return
	}

	days, err := h.store.SetCalendarRange(c.Request.Context(), store.SetCalendarRangeParams{
		StartDate:        start,
		EndDate:          end,
		Type:             req.Type,
		Note:             req.Note,
		ProductionLineID: req.ProductionLineID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GetCalendarRange handles GET /api/calendar?startDate=&endDate=&productionLineId=.
func (h *Handler) GetCalendarRange(c *gin.Context) {
	start, err := workday.ParseDate(c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := workday.ParseDate(c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "endDate must be YYYY-MM-DD"})
		return
	}
	lineID, ok := queryLineID(c)
	if !ok {
		return
	}

	events, err := h.store.GetCalendarRange(c.Request.Context(), start, end, lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// CheckWorkDay handles GET /api/calendar/check?date=&productionLineId=.
// It reports whether one date counts as a working day for the given line.
func (h *Handler) CheckWorkDay(c *gin.Context) {
	date, err := workday.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "date must be YYYY-MM-DD"})
		return
	}
	lineID, ok := queryLineID(c)
	if !ok {
		return
	}

	res, err := h.store.ResolveDay(c.Request.Context(), date, lineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// queryLineID parses the optional productionLineId query parameter.
func queryLineID(c *gin.Context) (*int64, bool) {
	raw := c.Query("productionLineId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "invalid productionLineId"})
		return nil, false
	}
	return &id, true
}
