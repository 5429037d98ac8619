package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupDeviceRouter() *gin.Engine {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil)
	r.POST("/api/devices", handler.CreateDevice)
	r.PUT("/api/devices/:id", handler.UpdateDevice)
	r.POST("/api/devices/bind", handler.BindDevices)
	return r
}

func TestCreateDeviceRejectsMissingFields(t *testing.T) {
	router := setupDeviceRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/devices", strings.NewReader(`{"name":"no code"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestUpdateDeviceRejectsBadID(t *testing.T) {
	router := setupDeviceRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/devices/abc", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestBindDevicesRequiresExactlyOneSlot(t *testing.T) {
	router := setupDeviceRouter()

	for _, body := range []string{
		`{"deviceIds":[1]}`,
		`{"deviceIds":[1],"stationId":2,"productionLineId":3}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/devices/bind", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "exactly one of stationId and productionLineId")
	}
}
