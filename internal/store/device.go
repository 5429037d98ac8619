package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateDeviceParams carries the fields accepted when creating a device.
type CreateDeviceParams struct {
	Code             string
	Name             string
	Type             string
	StationID        *int64
	ProductionLineID *int64
	Status           *model.Status
}

// UpdateDeviceParams carries a partial device update. The *Set flags
// distinguish "field absent" from "field explicitly set to null".
type UpdateDeviceParams struct {
	Code             *string
	Name             *string
	Type             *string
	StationID        *int64
	StationIDSet     bool
	ProductionLineID *int64
	LineIDSet        bool
	Status           *model.Status
	ForceUnbind      bool
}

// CreateDevice inserts a new device. A device created with a parent slot
// starts occupied; one created unavailable immediately opens a maintenance
// record in the same transaction.
func (s *gormStore) CreateDevice(ctx context.Context, p CreateDeviceParams) (*model.Device, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.StationID != nil && p.ProductionLineID != nil {
		return nil, validationf("stationId", "a device binds to a station or a production line, not both")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	now := time.Now()
	device := model.Device{
		Code:             p.Code,
		Name:             p.Name,
		Type:             p.Type,
		StationID:        p.StationID,
		ProductionLineID: p.ProductionLineID,
		Status:           model.StatusAvailable,
	}
	if p.Status != nil {
		device.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.Device{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("device", p.Code)
		}

		if p.StationID != nil {
			if err := tx.First(&model.Station{}, *p.StationID).Error; err != nil {
				return notFoundf("station", *p.StationID)
			}
			device.Status = model.StatusOccupied
		}
		if p.ProductionLineID != nil {
			if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
				return notFoundf("production line", *p.ProductionLineID)
			}
			device.Status = model.StatusOccupied
		}
		if !device.Bound() && device.Status == model.StatusOccupied {
			return validationf("status", "occupied is only reachable by binding to a slot")
		}

		if err := tx.Create(&device).Error; err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}

		if device.Status == model.StatusUnavailable {
			return openMaintenance(tx, device.ID, now, "device registered in unavailable state")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "device", fmt.Sprintf("device %s (%s) created, status %s", device.Code, device.Name, device.Status))
	return &device, nil
}

// UpdateDevice applies a partial edit to a device, enforcing the
// binding/status rules: occupied is only reachable through bind, and an
// edit to available while bound needs ForceUnbind or fails with
// ConfirmRequiredError before anything is written.
func (s *gormStore) UpdateDevice(ctx context.Context, id int64, p UpdateDeviceParams) (*model.Device, error) {
	if p.StationIDSet && p.LineIDSet && p.StationID != nil && p.ProductionLineID != nil {
		return nil, validationf("stationId", "a device binds to a station or a production line, not both")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	now := time.Now()
	var device model.Device
	var maintenanceClosed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&device, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("device", id)
			}
			return err
		}
		prev := device.Status

		if p.Code != nil && *p.Code != device.Code {
			taken, err := codeTaken(tx, &model.Device{}, *p.Code, device.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("device", *p.Code)
			}
			device.Code = *p.Code
		}
		if p.Name != nil {
			device.Name = *p.Name
		}
		if p.Type != nil {
			device.Type = *p.Type
		}

		var newlyBound, cleared bool
		if p.StationIDSet {
			if p.StationID != nil {
				if err := tx.First(&model.Station{}, *p.StationID).Error; err != nil {
					return notFoundf("station", *p.StationID)
				}
				device.StationID = p.StationID
				device.ProductionLineID = nil
				newlyBound = true
			} else if device.StationID != nil {
				device.StationID = nil
				cleared = true
			}
		}
		if p.LineIDSet {
			if p.ProductionLineID != nil {
				if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
					return notFoundf("production line", *p.ProductionLineID)
				}
				device.ProductionLineID = p.ProductionLineID
				device.StationID = nil
				newlyBound = true
			} else if device.ProductionLineID != nil {
				device.ProductionLineID = nil
				cleared = true
			}
		}

		switch {
		case newlyBound:
			// Binding in the same request wins over any supplied status.
			device.Status = model.StatusOccupied
		case cleared && p.Status == nil:
			if !device.Bound() {
				device.Status = model.StatusAvailable
			}
		case p.Status != nil:
			switch *p.Status {
			case model.StatusOccupied:
				if device.Status != model.StatusOccupied {
					return validationf("status", "occupied is only reachable by binding to a slot")
				}
			case model.StatusAvailable:
				if device.Bound() {
					if !p.ForceUnbind {
						return &ConfirmRequiredError{SlotName: deviceSlotName(tx, &device)}
					}
					device.StationID = nil
					device.ProductionLineID = nil
				}
				device.Status = model.StatusAvailable
			case model.StatusUnavailable:
				device.Status = model.StatusUnavailable
			}
		}

		if prev != model.StatusUnavailable && device.Status == model.StatusUnavailable {
			if err := openMaintenance(tx, device.ID, now, ""); err != nil {
				return err
			}
		} else if prev == model.StatusUnavailable && device.Status != model.StatusUnavailable {
			closed, err := closeMaintenance(tx, device.ID, now, "maintenance completed")
			if err != nil {
				return err
			}
			maintenanceClosed = closed
		}

		return tx.Save(&device).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "device", fmt.Sprintf("device %s updated, status %s", device.Code, device.Status))
	if maintenanceClosed {
		s.notifyBackInService([]int64{device.ID})
	}
	return &device, nil
}

// UnbindDevice clears the device's parent slot and resets it to available.
func (s *gormStore) UnbindDevice(ctx context.Context, id int64) (*model.Device, error) {
	now := time.Now()
	var device model.Device
	var maintenanceClosed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&device, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("device", id)
			}
			return err
		}

		prev := device.Status
		device.StationID = nil
		device.ProductionLineID = nil
		device.Status = model.StatusAvailable

		if prev == model.StatusUnavailable {
			closed, err := closeMaintenance(tx, device.ID, now, "maintenance completed")
			if err != nil {
				return err
			}
			maintenanceClosed = closed
		}
		return tx.Save(&device).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("unbind", "device", fmt.Sprintf("device %s released", device.Code))
	if maintenanceClosed {
		s.notifyBackInService([]int64{device.ID})
	}
	return &device, nil
}

// BindDevicesToStation binds a batch of devices to one station.
// All-or-nothing: a single missing device fails the whole batch.
func (s *gormStore) BindDevicesToStation(ctx context.Context, deviceIDs []int64, stationID int64) error {
	return s.bindDevices(ctx, deviceIDs, func(tx *gorm.DB) error {
		if err := tx.First(&model.Station{}, stationID).Error; err != nil {
			return notFoundf("station", stationID)
		}
		return nil
	}, func(d *model.Device) {
		d.StationID = &stationID
		d.ProductionLineID = nil
	}, fmt.Sprintf("station %d", stationID))
}

// BindDevicesToLine binds a batch of devices directly to a production line.
func (s *gormStore) BindDevicesToLine(ctx context.Context, deviceIDs []int64, lineID int64) error {
	return s.bindDevices(ctx, deviceIDs, func(tx *gorm.DB) error {
		if err := tx.First(&model.ProductionLine{}, lineID).Error; err != nil {
			return notFoundf("production line", lineID)
		}
		return nil
	}, func(d *model.Device) {
		d.ProductionLineID = &lineID
		d.StationID = nil
	}, fmt.Sprintf("production line %d", lineID))
}

func (s *gormStore) bindDevices(ctx context.Context, deviceIDs []int64, checkSlot func(*gorm.DB) error, assign func(*model.Device), slotLabel string) error {
	if len(deviceIDs) == 0 {
		return validationf("deviceIds", "must not be empty")
	}

	now := time.Now()
	var notify []int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSlot(tx); err != nil {
			return err
		}

		var devices []model.Device
		if err := tx.Find(&devices, deviceIDs).Error; err != nil {
			return err
		}
		if len(devices) != len(deviceIDs) {
			found := make(map[int64]bool, len(devices))
			for _, d := range devices {
				found[d.ID] = true
			}
			for _, id := range deviceIDs {
				if !found[id] {
					return notFoundf("device", id)
				}
			}
		}

		for i := range devices {
			d := &devices[i]
			prev := d.Status
			assign(d)
			d.Status = model.StatusOccupied

			if prev == model.StatusUnavailable {
				closed, err := closeMaintenance(tx, d.ID, now, "maintenance completed")
				if err != nil {
					return err
				}
				if closed {
					notify = append(notify, d.ID)
				}
			}
			if err := tx.Save(d).Error; err != nil {
				return fmt.Errorf("failed to bind device %d: %w", d.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record("bind", "device", fmt.Sprintf("%d device(s) bound to %s", len(deviceIDs), slotLabel))
	s.notifyBackInService(notify)
	return nil
}

// DeleteDevice removes a device, completing any open maintenance record
// so the downtime history stays well-formed.
func (s *gormStore) DeleteDevice(ctx context.Context, id int64) error {
	var device model.Device
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&device, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("device", id)
			}
			return err
		}

		if _, err := closeMaintenance(tx, device.ID, now, "device deleted"); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM subscription_device_mapping WHERE device_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&device).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "device", fmt.Sprintf("device %s deleted", device.Code))
	return nil
}

// GetDevice returns one device by id.
func (s *gormStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).First(&device, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("device", id)
		}
		return nil, err
	}
	return &device, nil
}

// ListDevices returns all devices ordered by id.
func (s *gormStore) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	if err := s.db.WithContext(ctx).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// deviceSlotName resolves the display name of the slot a device is bound
// to, for the confirm-required round trip. Falls back to a numeric label
// if the slot row is missing.
func deviceSlotName(tx *gorm.DB, d *model.Device) string {
	if d.StationID != nil {
		var station model.Station
		if err := tx.First(&station, *d.StationID).Error; err == nil {
			return station.Name
		}
		return fmt.Sprintf("station %d", *d.StationID)
	}
	if d.ProductionLineID != nil {
		var line model.ProductionLine
		if err := tx.First(&line, *d.ProductionLineID).Error; err == nil {
			return line.Name
		}
		return fmt.Sprintf("production line %d", *d.ProductionLineID)
	}
	return ""
}
