package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factory-resource-backend/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDays(t *testing.T) {
	days := Days(date("2025-09-29"), date("2025-10-02"))
	require.Len(t, days, 4)
	assert.Equal(t, date("2025-09-29"), days[0])
	assert.Equal(t, date("2025-10-02"), days[3])

	// Single-day range.
	assert.Len(t, Days(date("2025-10-01"), date("2025-10-01")), 1)

	// Inverted range yields nothing; the store rejects it before expansion.
	assert.Empty(t, Days(date("2025-10-02"), date("2025-10-01")))
}

func TestDefaultType(t *testing.T) {
	// 2025-10-01 is a Wednesday, 2025-10-04 a Saturday.
	assert.Equal(t, model.CalendarTypeWork, DefaultType(date("2025-10-01")))
	assert.Equal(t, model.CalendarTypeRest, DefaultType(date("2025-10-04")))
	assert.Equal(t, model.CalendarTypeRest, DefaultType(date("2025-10-05")))
	assert.Equal(t, model.CalendarTypeWork, DefaultType(date("2025-10-06")))
}

func TestResolvePrecedence(t *testing.T) {
	d := date("2025-10-01")
	lineID := int64(7)
	global := &model.CalendarEvent{Date: d, Type: model.CalendarTypeHoliday, Note: "National Day"}
	line := &model.CalendarEvent{Date: d, ProductionLineID: &lineID, Type: model.CalendarTypeWork}

	r := Resolve(d, line, global)
	assert.True(t, r.IsWorkDay)
	assert.Equal(t, SourceProductionLine, r.Source)

	r = Resolve(d, nil, global)
	assert.False(t, r.IsWorkDay)
	assert.Equal(t, SourceGlobal, r.Source)
	assert.Equal(t, "National Day", r.Reason)

	r = Resolve(d, nil, nil)
	assert.True(t, r.IsWorkDay, "a plain Wednesday is a working day")
	assert.Equal(t, SourceDefault, r.Source)
	assert.Equal(t, model.CalendarTypeWork, r.Type)
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2025-13-40")
	assert.Error(t, err)

	d, err := ParseDate("2025-10-01")
	require.NoError(t, err)
	assert.Equal(t, time.October, d.Month())
}
