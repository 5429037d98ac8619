package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/db"
	"factory-resource-backend/internal/model"
)

// captureNotifier records back-in-service callbacks for assertions.
type captureNotifier struct {
	ids []int64
}

func (n *captureNotifier) DeviceBackInService(deviceID int64) {
	n.ids = append(n.ids, deviceID)
}

// newTestStore spins up an in-memory SQLite database with the production
// schema and wraps it in a store.
func newTestStore(t *testing.T) (Store, *gorm.DB, *captureNotifier) {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(db.Models()...))

	notifier := &captureNotifier{}
	s := NewGormStore(testDB, changelog.New(changelog.DefaultCapacity), notifier)
	return s, testDB, notifier
}

func statusPtr(st model.Status) *model.Status {
	return &st
}

func mustCreateFactory(t *testing.T, s Store, code string) *model.Factory {
	t.Helper()
	f, err := s.CreateFactory(context.Background(), CreateFactoryParams{Code: code, Name: "Factory " + code})
	require.NoError(t, err)
	return f
}

func mustCreateLine(t *testing.T, s Store, code string) *model.ProductionLine {
	t.Helper()
	l, err := s.CreateLine(context.Background(), CreateLineParams{Code: code, Name: "Line " + code})
	require.NoError(t, err)
	return l
}

func mustCreateStation(t *testing.T, s Store, code string) *model.Station {
	t.Helper()
	st, err := s.CreateStation(context.Background(), CreateStationParams{Code: code, Name: "Station " + code})
	require.NoError(t, err)
	return st
}

func mustCreateDevice(t *testing.T, s Store, code string) *model.Device {
	t.Helper()
	d, err := s.CreateDevice(context.Background(), CreateDeviceParams{Code: code, Name: "Device " + code})
	require.NoError(t, err)
	return d
}

func mustCreateStaff(t *testing.T, s Store, code string) *model.Staff {
	t.Helper()
	m, err := s.CreateStaff(context.Background(), CreateStaffParams{Code: code, Name: "Staff " + code})
	require.NoError(t, err)
	return m
}
