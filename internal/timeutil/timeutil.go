// Package timeutil provides timezone-aware calendar arithmetic used by the
// availability calculator. All functions are pure.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayStart returns local midnight of the day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays returns t shifted by n calendar days, preserving the local clock
// time across DST transitions.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekdayAbbrev returns the three-letter weekday abbreviation for t ("Mon",
// "Tue", ...), matching the keys of a business-hours map.
func WeekdayAbbrev(t time.Time) string {
	return t.Weekday().String()[:3]
}

// CombineTime places an "HH:MM" clock time onto the calendar day of date, in
// date's location.
func CombineTime(date time.Time, hhmm string) (time.Time, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", hhmm, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", hhmm, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %s", hhmm)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// ParseLocalDate parses a "YYYY-MM-DD" string as a calendar date in loc,
// ignoring any time or zone component. This avoids the off-by-one-day errors
// of parsing date strings as UTC instants.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", s)
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc), nil
}

// SameDate reports whether a and b fall on the same calendar date. Both are
// compared in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekStart returns local midnight of the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return AddDays(day, -offset)
}

// NextGridPoint returns the earliest dayStart + k*interval (k >= 0) that is
// not before the floor instant. Used to align a walking cursor to the
// slot-interval grid after skipping past time.
func NextGridPoint(dayStart, floor time.Time, interval time.Duration) time.Time {
	if !floor.After(dayStart) {
		return dayStart
	}
	elapsed := floor.Sub(dayStart)
	steps := elapsed / interval
	if elapsed%interval != 0 {
		steps++
	}
	return dayStart.Add(steps * interval)
}

// Overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
