package model

import "time"

// Staff represents a worker. Membership in a team is the staff's binding.
type Staff struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name      string `gorm:"size:256;not null" json:"name"`
	Role      string `gorm:"size:64" json:"role"`
	TeamID    *int64 `gorm:"index" json:"teamId"`
	Status    Status `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
