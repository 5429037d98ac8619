package workday

import (
	"fmt"
	"time"

	"factory-resource-backend/internal/model"
)

// Sources a resolved day can come from, in precedence order.
const (
	SourceProductionLine = "production_line"
	SourceGlobal         = "global"
	SourceDefault        = "default"
)

// Resolution is the answer to "is this date a working day for this line?".
type Resolution struct {
	IsWorkDay bool   `json:"isWorkDay"`
	Type      string `json:"eventType"`
	Source    string `json:"source"`
	Reason    string `json:"reason"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a normalized UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Normalize truncates a timestamp to its UTC calendar date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days expands an inclusive date range into one entry per calendar day.
func Days(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DefaultType returns the weekday-rule type for a date: Monday through
// Friday are working days, Saturday and Sunday are rest days.
func DefaultType(date time.Time) string {
	switch date.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return model.CalendarTypeRest
	}
	return model.CalendarTypeWork
}

// Resolve merges a line-specific and a global event for one date.
// A line override beats a global event, which beats the weekday rule.
func Resolve(date time.Time, lineEvent, globalEvent *model.CalendarEvent) Resolution {
	switch {
	case lineEvent != nil:
		return Resolution{
			IsWorkDay: lineEvent.Type == model.CalendarTypeWork,
			Type:      lineEvent.Type,
			Source:    SourceProductionLine,
			Reason:    reason(lineEvent.Note, "production line override"),
		}
	case globalEvent != nil:
		return Resolution{
			IsWorkDay: globalEvent.Type == model.CalendarTypeWork,
			Type:      globalEvent.Type,
			Source:    SourceGlobal,
			Reason:    reason(globalEvent.Note, "global calendar rule"),
		}
	}

	t := DefaultType(date)
	return Resolution{
		IsWorkDay: t == model.CalendarTypeWork,
		Type:      t,
		Source:    SourceDefault,
		Reason:    fmt.Sprintf("default weekday rule (%s)", date.UTC().Weekday()),
	}
}

func reason(note, fallback string) string {
	if note != "" {
		return note
	}
	return fallback
}
