package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-resource-backend/internal/model"
)

func TestDeviceMaintenanceLifecycle(t *testing.T) {
	s, testDB, notifier := newTestStore(t)
	ctx := context.Background()

	device := mustCreateDevice(t, s, "DEV-001")
	assert.Equal(t, model.StatusAvailable, device.Status)

	// Going unavailable opens exactly one in-progress record.
	device, err := s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnavailable, device.Status)

	var records []model.MaintenanceRecord
	require.NoError(t, testDB.Where("device_id = ?", device.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.MaintenanceInProgress, records[0].Status)
	assert.Nil(t, records[0].EndTime)

	// Staying unavailable must not open a second record.
	_, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)
	require.NoError(t, testDB.Where("device_id = ?", device.ID).Find(&records).Error)
	assert.Len(t, records, 1)

	// Recovering closes the record in the same transaction and notifies.
	device, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusAvailable),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, device.Status)

	require.NoError(t, testDB.Where("device_id = ?", device.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.MaintenanceCompleted, records[0].Status)
	require.NotNil(t, records[0].EndTime)
	assert.False(t, records[0].EndTime.Before(records[0].StartTime))
	assert.Equal(t, []int64{device.ID}, notifier.ids)

	history, err := s.ListMaintenanceRecords(ctx, device.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDeviceCreatedUnavailableOpensRecord(t *testing.T) {
	s, testDB, _ := newTestStore(t)

	device, err := s.CreateDevice(context.Background(), CreateDeviceParams{
		Code:   "DEV-BROKEN",
		Name:   "Broken on arrival",
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.MaintenanceRecord{}).
		Where("device_id = ? AND status = ?", device.ID, model.MaintenanceInProgress).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeviceOccupiedOnlyViaBinding(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateDevice(ctx, CreateDeviceParams{
		Code:   "DEV-OCC",
		Name:   "No slot",
		Status: statusPtr(model.StatusOccupied),
	})
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)

	device := mustCreateDevice(t, s, "DEV-002")
	_, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusOccupied),
	})
	require.ErrorAs(t, err, &invalid)

	// Binding is what sets occupied.
	station := mustCreateStation(t, s, "ST-001")
	device, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		StationID:    &station.ID,
		StationIDSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, device.Status)
	require.NotNil(t, device.StationID)
	assert.Equal(t, station.ID, *device.StationID)
}

func TestDeviceUnbindNeedsConfirmation(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	line := mustCreateLine(t, s, "LINE-001")
	device, err := s.CreateDevice(ctx, CreateDeviceParams{
		Code:             "DEV-003",
		Name:             "Press",
		ProductionLineID: &line.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, device.Status)

	// Setting available while bound is refused with the slot's name so the
	// caller can ask the operator before retrying.
	_, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusAvailable),
	})
	var confirm *ConfirmRequiredError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, line.Name, confirm.SlotName)

	// Nothing changed on the refused edit.
	device, err = s.GetDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, device.Status)
	require.NotNil(t, device.ProductionLineID)

	// The confirmed retry clears the binding and resets the status.
	device, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status:      statusPtr(model.StatusAvailable),
		ForceUnbind: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, device.Status)
	assert.Nil(t, device.ProductionLineID)
	assert.Nil(t, device.StationID)
}

func TestDeviceDuplicateCodeConflicts(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	mustCreateDevice(t, s, "DEV-DUP")
	_, err := s.CreateDevice(ctx, CreateDeviceParams{Code: "DEV-DUP", Name: "Copy"})
	assert.True(t, errors.Is(err, ErrConflict))

	other := mustCreateDevice(t, s, "DEV-OTHER")
	code := "DEV-DUP"
	_, err = s.UpdateDevice(ctx, other.ID, UpdateDeviceParams{Code: &code})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestBindDevicesBatch(t *testing.T) {
	s, testDB, notifier := newTestStore(t)
	ctx := context.Background()

	station := mustCreateStation(t, s, "ST-BATCH")
	d1 := mustCreateDevice(t, s, "DEV-B1")
	d2 := mustCreateDevice(t, s, "DEV-B2")

	// d2 is down before the bind; binding it brings it back in service.
	_, err := s.UpdateDevice(ctx, d2.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)
	notifier.ids = nil

	require.NoError(t, s.BindDevicesToStation(ctx, []int64{d1.ID, d2.ID}, station.ID))

	for _, id := range []int64{d1.ID, d2.ID} {
		d, err := s.GetDevice(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusOccupied, d.Status)
		require.NotNil(t, d.StationID)
		assert.Equal(t, station.ID, *d.StationID)
	}

	var open int64
	testDB.Model(&model.MaintenanceRecord{}).
		Where("device_id = ? AND status = ?", d2.ID, model.MaintenanceInProgress).
		Count(&open)
	assert.Equal(t, int64(0), open)
	assert.Equal(t, []int64{d2.ID}, notifier.ids)
}

func TestBindDevicesMissingIDFailsWholeBatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	station := mustCreateStation(t, s, "ST-MISS")
	d1 := mustCreateDevice(t, s, "DEV-M1")

	err := s.BindDevicesToStation(ctx, []int64{d1.ID, 9999}, station.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// The existing device was not touched.
	d1, err = s.GetDevice(ctx, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, d1.Status)
	assert.Nil(t, d1.StationID)
}

func TestUnbindDeviceClosesMaintenance(t *testing.T) {
	s, testDB, notifier := newTestStore(t)
	ctx := context.Background()

	station := mustCreateStation(t, s, "ST-UNB")
	device, err := s.CreateDevice(ctx, CreateDeviceParams{
		Code:      "DEV-UNB",
		Name:      "Welder",
		StationID: &station.ID,
	})
	require.NoError(t, err)

	// Down while still bound, then released: the release completes the
	// downtime record.
	_, err = s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)

	device, err = s.UnbindDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, device.Status)
	assert.Nil(t, device.StationID)

	var open int64
	testDB.Model(&model.MaintenanceRecord{}).
		Where("device_id = ? AND status = ?", device.ID, model.MaintenanceInProgress).
		Count(&open)
	assert.Equal(t, int64(0), open)
	assert.Contains(t, notifier.ids, device.ID)
}

func TestStationBindingRules(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	line := mustCreateLine(t, s, "LINE-ST")
	station := mustCreateStation(t, s, "ST-RULES")

	require.NoError(t, s.BindStationsToLine(ctx, []int64{station.ID}, line.ID))
	station, err := s.GetStation(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOccupied, station.Status)

	_, err = s.UpdateStation(ctx, station.ID, UpdateStationParams{
		Status: statusPtr(model.StatusAvailable),
	})
	var confirm *ConfirmRequiredError
	require.ErrorAs(t, err, &confirm)
	assert.Equal(t, line.Name, confirm.SlotName)

	station, err = s.UnbindStation(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, station.Status)
	assert.Nil(t, station.ProductionLineID)
}

func TestDeleteDeviceCompletesOpenRecord(t *testing.T) {
	s, testDB, _ := newTestStore(t)
	ctx := context.Background()

	device := mustCreateDevice(t, s, "DEV-DEL")
	_, err := s.UpdateDevice(ctx, device.ID, UpdateDeviceParams{
		Status: statusPtr(model.StatusUnavailable),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteDevice(ctx, device.ID))

	_, err = s.GetDevice(ctx, device.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Downtime history survives the device, but with no dangling open record.
	var records []model.MaintenanceRecord
	require.NoError(t, testDB.Where("device_id = ?", device.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, model.MaintenanceCompleted, records[0].Status)
}
