package model

import "time"

// Calendar event types. DEFAULT is accepted on writes only: it clears the
// overrides in a range so the weekday rule applies again, and is never stored.
const (
	CalendarTypeWork    = "WORK"
	CalendarTypeHoliday = "HOLIDAY"
	CalendarTypeRest    = "REST"
	CalendarTypeDefault = "DEFAULT"
)

// CalendarEvent overrides the default work-day rule for one date.
// A nil ProductionLineID marks a global rule; a non-nil one a line-specific
// override. There is at most one event per (date, scope) pair.
type CalendarEvent struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Date             time.Time `gorm:"index;not null" json:"date"`
	ProductionLineID *int64    `gorm:"index" json:"productionLineId"`
	Type             string    `gorm:"size:16;not null" json:"type"`
	Note             string    `gorm:"size:512" json:"note"`
	CreatedAt        time.Time `json:"createdAt"`
}
