package model

import "time"

// Team represents a production crew. Like devices, a team is bound to a
// station or a production line, not both.
type Team struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	Code             string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name             string `gorm:"size:256;not null" json:"name"`
	StationID        *int64 `gorm:"index" json:"stationId"`
	ProductionLineID *int64 `gorm:"index" json:"productionLineId"`
	Status           Status `gorm:"not null;default:0" json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Associations
	Members []Staff `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// Bound reports whether the team currently occupies a parent slot.
func (t *Team) Bound() bool {
	return t.StationID != nil || t.ProductionLineID != nil
}
