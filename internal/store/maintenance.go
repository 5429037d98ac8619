package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// openMaintenance inserts an in-progress downtime record for a device.
// It runs inside the transaction of the status change that triggered it.
// If a record is somehow already open the call is a no-op, so a device
// never accumulates more than one open record.
func openMaintenance(tx *gorm.DB, deviceID int64, now time.Time, note string) error {
	var count int64
	if err := tx.Model(&model.MaintenanceRecord{}).
		Where("device_id = ? AND status = ?", deviceID, model.MaintenanceInProgress).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check open maintenance for device %d: %w", deviceID, err)
	}
	if count > 0 {
		return nil
	}

	record := model.MaintenanceRecord{
		DeviceID:    deviceID,
		StartTime:   now,
		Status:      model.MaintenanceInProgress,
		Description: note,
	}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to open maintenance record for device %d: %w", deviceID, err)
	}
	return nil
}

// closeMaintenance completes the open downtime record of a device, if any.
// The completion note is appended to the free-text description rather than
// overwriting it. Returns whether a record was actually closed.
func closeMaintenance(tx *gorm.DB, deviceID int64, now time.Time, note string) (bool, error) {
	var record model.MaintenanceRecord
	err := tx.Where("device_id = ? AND status = ?", deviceID, model.MaintenanceInProgress).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up open maintenance for device %d: %w", deviceID, err)
	}

	record.EndTime = &now
	record.Status = model.MaintenanceCompleted
	completion := fmt.Sprintf("%s at %s", note, now.Format(time.RFC3339))
	if record.Description != "" {
		record.Description += "\n" + completion
	} else {
		record.Description = completion
	}

	if err := tx.Save(&record).Error; err != nil {
		return false, fmt.Errorf("failed to close maintenance record for device %d: %w", deviceID, err)
	}
	return true, nil
}

// ListMaintenanceRecords returns a device's downtime history, newest first.
func (s *gormStore) ListMaintenanceRecords(ctx context.Context, deviceID int64) ([]model.MaintenanceRecord, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).First(&device, deviceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("device", deviceID)
		}
		return nil, err
	}

	var records []model.MaintenanceRecord
	if err := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("start_time DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance records for device %d: %w", deviceID, err)
	}
	return records, nil
}
