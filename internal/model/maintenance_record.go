package model

import "time"

// Maintenance record states. A device has at most one record in progress
// at any time; it stays open exactly while the device remains unavailable.
const (
	MaintenanceInProgress = "in progress"
	MaintenanceCompleted  = "completed"
)

// MaintenanceRecord logs a downtime interval for a device.
type MaintenanceRecord struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	DeviceID    int64      `gorm:"index;not null" json:"deviceId"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Status      string     `gorm:"size:32;not null" json:"status"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
