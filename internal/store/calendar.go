package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/workday"
)

// SetCalendarRangeParams describes one batch calendar edit.
type SetCalendarRangeParams struct {
	StartDate        time.Time
	EndDate          time.Time
	Type             string
	Note             string
	ProductionLineID *int64
}

// ResolveDay decides whether a date is a working day, applying override
// precedence: line-specific event, then global event, then the weekday rule.
func (s *gormStore) ResolveDay(ctx context.Context, date time.Time, lineID *int64) (workday.Resolution, error) {
	date = workday.Normalize(date)
	db := s.db.WithContext(ctx)

	var lineEvent *model.CalendarEvent
	if lineID != nil {
		var ev model.CalendarEvent
		err := db.Where("date = ? AND production_line_id = ?", date, *lineID).First(&ev).Error
		if err == nil {
			lineEvent = &ev
		} else if err != gorm.ErrRecordNotFound {
			return workday.Resolution{}, fmt.Errorf("failed to look up line calendar event: %w", err)
		}
	}

	var globalEvent *model.CalendarEvent
	if lineEvent == nil {
		var ev model.CalendarEvent
		err := db.Where("date = ? AND production_line_id IS NULL", date).First(&ev).Error
		if err == nil {
			globalEvent = &ev
		} else if err != gorm.ErrRecordNotFound {
			return workday.Resolution{}, fmt.Errorf("failed to look up global calendar event: %w", err)
		}
	}

	return workday.Resolve(date, lineEvent, globalEvent), nil
}

// SetCalendarRange replaces every event in the inclusive date range for one
// scope (global or one line) with a fresh row per day. Type DEFAULT only
// deletes, restoring the weekday rule for the range. Delete-then-insert
// means a range edit replaces prior configuration, never merges with it.
// Returns the number of days the edit covers.
func (s *gormStore) SetCalendarRange(ctx context.Context, p SetCalendarRangeParams) (int, error) {
	switch p.Type {
	case model.CalendarTypeWork, model.CalendarTypeHoliday, model.CalendarTypeRest, model.CalendarTypeDefault:
	default:
		return 0, validationf("type", "unknown calendar type %q", p.Type)
	}

	start, end := workday.Normalize(p.StartDate), workday.Normalize(p.EndDate)
	if start.After(end) {
		return 0, validationf("startDate", "start date must not be after end date")
	}
	days := workday.Days(start, end)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.ProductionLineID != nil {
			if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
				return notFoundf("production line", *p.ProductionLineID)
			}
		}

		del := tx.Where("date >= ? AND date <= ?", start, end)
		if p.ProductionLineID != nil {
			del = del.Where("production_line_id = ?", *p.ProductionLineID)
		} else {
			del = del.Where("production_line_id IS NULL")
		}
		if err := del.Delete(&model.CalendarEvent{}).Error; err != nil {
			return fmt.Errorf("failed to clear calendar range: %w", err)
		}

		if p.Type == model.CalendarTypeDefault {
			return nil
		}

		events := make([]model.CalendarEvent, len(days))
		for i, d := range days {
			events[i] = model.CalendarEvent{
				Date:             d,
				ProductionLineID: p.ProductionLineID,
				Type:             p.Type,
				Note:             p.Note,
			}
		}
		if err := tx.Create(&events).Error; err != nil {
			return fmt.Errorf("failed to insert calendar events: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	scope := "global"
	if p.ProductionLineID != nil {
		scope = fmt.Sprintf("line %d", *p.ProductionLineID)
	}
	s.record("calendar", "calendar_event", fmt.Sprintf("%s set to %s for %d day(s) from %s",
		scope, p.Type, len(days), start.Format(workday.DateLayout)))
	return len(days), nil
}

// GetCalendarRange lists events in a range. With a line id it returns the
// union of global events and that line's overrides; the caller merges by
// the same precedence ResolveDay applies. Without one it returns only
// global events.
func (s *gormStore) GetCalendarRange(ctx context.Context, start, end time.Time, lineID *int64) ([]model.CalendarEvent, error) {
	start, end = workday.Normalize(start), workday.Normalize(end)
	if start.After(end) {
		return nil, validationf("startDate", "start date must not be after end date")
	}

	q := s.db.WithContext(ctx).Where("date >= ? AND date <= ?", start, end)
	if lineID != nil {
		q = q.Where("production_line_id IS NULL OR production_line_id = ?", *lineID)
	} else {
		q = q.Where("production_line_id IS NULL")
	}

	var events []model.CalendarEvent
	if err := q.Order("date").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}
