package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	log     *changelog.Log
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, log *changelog.Log) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		log:     log,
	}
}

// nullableID distinguishes an absent JSON field from an explicit null, so
// update requests can clear a binding without tripping over Go's zero
// values.
type nullableID struct {
	Set bool
	ID  *int64
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &n.ID)
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps the store's error taxonomy to HTTP. Confirm-required
// is not a failure: it gets its own status so the UI can re-prompt and
// retry with forceUnbind instead of surfacing an error.
func respondError(c *gin.Context, err error) {
	var confirm *store.ConfirmRequiredError
	var invalid *store.ValidationError
	switch {
	case errors.As(err, &confirm):
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"code":      "confirm_required",
			"slot_name": confirm.SlotName,
			"message":   confirm.Error(),
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": "CONFLICT", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "internal error"})
	}
}

// GetChangeLog returns the most recent mutations, newest first.
func (h *Handler) GetChangeLog(c *gin.Context) {
	if h.log == nil {
		c.JSON(http.StatusOK, []changelog.Entry{})
		return
	}
	c.JSON(http.StatusOK, h.log.Entries())
}
