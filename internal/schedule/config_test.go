package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg, err := Normalize(RawConfig{})
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, time.UTC, cfg.Location)

	assert.Len(t, cfg.BusinessHours, 5)
	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri"} {
		hours, ok := cfg.BusinessHours[day]
		require.True(t, ok, "missing default hours for %s", day)
		assert.Equal(t, DayHours{Start: "09:00", End: "17:00"}, hours)
	}
	_, ok := cfg.BusinessHours["Sat"]
	assert.False(t, ok)

	assert.Equal(t, map[string]bool{"Sat": true, "Sun": true}, cfg.ClosedDays)
	assert.Empty(t, cfg.Holidays)
	assert.Zero(t, cfg.BufferMinutes)
	assert.Zero(t, cfg.MaxBookingsPerDay)
	assert.Zero(t, cfg.MaxBookingsPerWeek)
}

func TestNormalizeExplicitValues(t *testing.T) {
	cfg, err := Normalize(RawConfig{
		Timezone: "America/New_York",
		BusinessHours: map[string][]string{
			"Mon": {"10:00", "16:00"},
			"Sat": {"11:00", "14:00"},
		},
		ClosedDays:                   []string{"Sun"},
		HolidayDates:                 []string{"2025-12-25", "2026-01-01"},
		BufferMinutesBetweenMeetings: 15,
		MaxBookingsPerDay:            3,
		MaxBookingsPerWeek:           10,
	})
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Len(t, cfg.BusinessHours, 2)
	assert.Equal(t, DayHours{Start: "11:00", End: "14:00"}, cfg.BusinessHours["Sat"])
	assert.Equal(t, map[string]bool{"Sun": true}, cfg.ClosedDays)
	assert.Equal(t, 15*time.Minute, cfg.BufferMinutes)
	assert.Equal(t, 3, cfg.MaxBookingsPerDay)
	assert.Equal(t, 10, cfg.MaxBookingsPerWeek)

	require.Len(t, cfg.Holidays, 2)
	xmas := cfg.Holidays[0]
	assert.Equal(t, 2025, xmas.Year())
	assert.Equal(t, time.December, xmas.Month())
	assert.Equal(t, 25, xmas.Day())
	// Holidays are local calendar dates, not UTC instants.
	assert.Equal(t, cfg.Location, xmas.Location())
	assert.Equal(t, 0, xmas.Hour())
}

func TestNormalizeEmptyBusinessHoursMeansClosed(t *testing.T) {
	// An explicitly empty map closes every weekday; only an absent field
	// falls back to the Mon-Fri default.
	cfg, err := Normalize(RawConfig{BusinessHours: map[string][]string{}})
	require.NoError(t, err)
	assert.Empty(t, cfg.BusinessHours)

	loc := time.UTC
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	slots := AvailableSlots(cfg, NormalizeRequest(7, 30, 30, 5, nil), nil, nil, now)
	assert.Empty(t, slots)
}

func TestNormalizeBadInput(t *testing.T) {
	_, err := Normalize(RawConfig{Timezone: "Mars/Olympus_Mons"})
	assert.Error(t, err)

	// Unparseable holidays and short hour windows are dropped, not fatal.
	cfg, err := Normalize(RawConfig{
		HolidayDates:  []string{"not-a-date", "2025-07-04"},
		BusinessHours: map[string][]string{"Mon": {"09:00"}, "Tue": {"09:00", "12:00"}},
	})
	require.NoError(t, err)
	assert.Len(t, cfg.Holidays, 1)
	_, ok := cfg.BusinessHours["Mon"]
	assert.False(t, ok)
	_, ok = cfg.BusinessHours["Tue"]
	assert.True(t, ok)

	// Negative caps and buffer are treated as unset.
	cfg, err = Normalize(RawConfig{BufferMinutesBetweenMeetings: -5, MaxBookingsPerDay: -1})
	require.NoError(t, err)
	assert.Zero(t, cfg.BufferMinutes)
	assert.Zero(t, cfg.MaxBookingsPerDay)
}

func TestNormalizeRequest(t *testing.T) {
	req := NormalizeRequest(0, 0, 0, 0, nil)
	assert.Equal(t, SlotRequest{
		DaysAhead:           7,
		SlotDurationMinutes: 30,
		SlotIntervalMinutes: 30,
		MaxSlots:            5,
		SkipPastTimeToday:   true,
	}, req)

	skip := false
	req = NormalizeRequest(14, 60, 15, 3, &skip)
	assert.Equal(t, SlotRequest{
		DaysAhead:           14,
		SlotDurationMinutes: 60,
		SlotIntervalMinutes: 15,
		MaxSlots:            3,
		SkipPastTimeToday:   false,
	}, req)
	assert.Equal(t, time.Hour, req.Duration())
	assert.Equal(t, 15*time.Minute, req.Interval())
}
