package model

import "time"

// Device represents a production device. It can be bound either to a
// station or directly to a production line, never both at once.
type Device struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Code             string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name             string `gorm:"size:256;not null" json:"name"`
	Type             string `gorm:"size:64" json:"type"`
	StationID        *int64 `gorm:"index" json:"stationId"`
	ProductionLineID *int64 `gorm:"index" json:"productionLineId"`
	Status           Status `gorm:"not null;default:0" json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Bound reports whether the device currently occupies a parent slot.
func (d *Device) Bound() bool {
	return d.StationID != nil || d.ProductionLineID != nil
}
