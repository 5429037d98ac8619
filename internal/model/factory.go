package model

import "time"

// Factory represents a physical plant.
type Factory struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name      string `gorm:"size:256;not null" json:"name"`
	Address   string `gorm:"size:512" json:"address"`
	Status    Status `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Lines []ProductionLine `gorm:"foreignKey:FactoryID" json:"lines,omitempty"`
}
