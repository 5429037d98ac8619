package model

import "time"

// ProductionLine represents a production line inside a factory.
type ProductionLine struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name      string `gorm:"size:256;not null" json:"name"`
	FactoryID *int64 `gorm:"index" json:"factoryId"`
	Status    Status `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
