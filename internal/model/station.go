package model

import "time"

// Station represents a work station on a production line.
// A station with a nil ProductionLineID has not been placed yet.
type Station struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Code             string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name             string `gorm:"size:256;not null" json:"name"`
	ProductionLineID *int64 `gorm:"index" json:"productionLineId"`
	Status           Status `gorm:"not null;default:0" json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
