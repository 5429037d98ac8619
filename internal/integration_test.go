package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"factory-resource-backend/config"
	"factory-resource-backend/internal/api"
	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/db"
	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/store"
)

func setupServer(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(db.Models()...))

	log := changelog.New(changelog.DefaultCapacity)
	appStore := store.NewGormStore(testDB, log, nil)

	// Generous limits so the test itself is never throttled.
	router := api.NewRouter(appStore, nil, log, config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	})
	return testDB, router
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestDeviceLifecycleOverHTTP walks a device through registration, binding,
// breakdown and recovery, checking the API responses and the database rows
// at each step.
func TestDeviceLifecycleOverHTTP(t *testing.T) {
	testDB, router := setupServer(t)

	// Register the plant topology.
	w := doJSON(t, router, "POST", "/api/factories", `{"code":"FAC-1","name":"North plant"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/api/lines", `{"code":"LINE-1","name":"Bottling line"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var line model.ProductionLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))

	w = doJSON(t, router, "POST", "/api/stations", fmt.Sprintf(`{"code":"ST-1","name":"Filling station","productionLineId":%d}`, line.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var station model.Station
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &station))
	assert.Equal(t, model.StatusOccupied, station.Status)

	// A freshly bound device is occupied without asking.
	w = doJSON(t, router, "POST", "/api/devices", fmt.Sprintf(`{"code":"DEV-1","name":"Filler","stationId":%d}`, station.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var device model.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &device))
	assert.Equal(t, model.StatusOccupied, device.Status)

	// Marking it available while bound is a confirm-required round trip.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/devices/%d", device.ID), `{"status":0}`)
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	var confirm struct {
		Code     string `json:"code"`
		SlotName string `json:"slot_name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirm))
	assert.Equal(t, "confirm_required", confirm.Code)
	assert.Equal(t, station.Name, confirm.SlotName)

	// The device breaks down: a maintenance record opens with it.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/devices/%d", device.ID), `{"status":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var open int64
	testDB.Model(&model.MaintenanceRecord{}).
		Where("device_id = ? AND status = ?", device.ID, model.MaintenanceInProgress).
		Count(&open)
	assert.Equal(t, int64(1), open)

	// Recovery closes it; the history endpoint shows one completed record.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/devices/%d", device.ID), `{"status":0,"forceUnbind":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &device))
	assert.Equal(t, model.StatusAvailable, device.Status)
	assert.Nil(t, device.StationID)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/devices/%d/maintenance", device.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var records []model.MaintenanceRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, model.MaintenanceCompleted, records[0].Status)
	assert.NotNil(t, records[0].EndTime)

	// The change log saw the whole story.
	w = doJSON(t, router, "GET", "/api/changelog", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []changelog.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.NotEmpty(t, entries)
}

// TestCalendarOverHTTP exercises range edits and day resolution through the
// API, including the line-beats-global precedence.
func TestCalendarOverHTTP(t *testing.T) {
	_, router := setupServer(t)

	w := doJSON(t, router, "POST", "/api/lines", `{"code":"LINE-CAL","name":"Override line"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var line model.ProductionLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))

	// Global holiday week.
	w = doJSON(t, router, "POST", "/api/calendar", `{"startDate":"2025-10-01","endDate":"2025-10-07","type":"HOLIDAY","note":"National Day"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"days":7}`, w.Body.String())

	// One line works through the first day.
	w = doJSON(t, router, "POST", "/api/calendar", fmt.Sprintf(`{"startDate":"2025-10-01","endDate":"2025-10-01","type":"WORK","productionLineId":%d}`, line.ID))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/calendar/check?date=2025-10-01&productionLineId=%d", line.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		IsWorkDay bool   `json:"isWorkDay"`
		Source    string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.IsWorkDay)
	assert.Equal(t, "production_line", res.Source)

	w = doJSON(t, router, "GET", "/api/calendar/check?date=2025-10-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.IsWorkDay)
	assert.Equal(t, "global", res.Source)

	// Bad input surfaces as a validation error, not a 500.
	w = doJSON(t, router, "POST", "/api/calendar", `{"startDate":"2025-10-07","endDate":"2025-10-01","type":"WORK"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/calendar/check?date=not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
