package schedule

import (
	"time"

	"slotwire/internal/timeutil"
)

// BusyPeriod is an occupied interval sourced from the calendar provider, in
// UTC. Periods may overlap; they are used as given, never merged or sorted.
type BusyPeriod struct {
	Start time.Time
	End   time.Time
}

// EventTime is the start/end of an existing calendar event, used only for
// per-day and per-week booking-cap checks.
type EventTime struct {
	Start time.Time
	End   time.Time
}

// Slot is a bookable candidate window in UTC. End is always Start plus the
// requested slot duration.
type Slot struct {
	Start time.Time
	End   time.Time
}

// AvailableSlots walks the tenant-local day range [today, today+daysAhead]
// and returns up to req.MaxSlots candidate slots that fall inside business
// hours, avoid closed days, holidays and booking caps, and do not overlap any
// buffered busy period. The result is deterministic for fixed inputs.
//
// The sweep is staged: candidate days are filtered first (closure, holiday,
// caps), then candidate start times are generated per surviving day and
// filtered against busy periods. A rejected candidate never causes
// backtracking; the cursor always advances by one interval.
func AvailableSlots(cfg *Config, req SlotRequest, busy []BusyPeriod, existing []EventTime, now time.Time) []Slot {
	now = now.In(cfg.Location)
	horizon := timeutil.DayStart(timeutil.AddDays(now, req.DaysAhead))

	slots := make([]Slot, 0, req.MaxSlots)
	for day := timeutil.DayStart(now); !day.After(horizon) && len(slots) < req.MaxSlots; day = timeutil.AddDays(day, 1) {
		window, ok := dayWindow(cfg, day)
		if !ok {
			continue
		}

		start := window.start
		if req.SkipPastTimeToday && timeutil.SameDate(day, now) {
			start = timeutil.NextGridPoint(window.start, now.Add(req.Interval()), req.Interval())
			if start.Add(req.Duration()).After(window.end) {
				continue
			}
		}

		if capReached(cfg, day, existing) {
			continue
		}

		slots = collectDaySlots(slots, start, window.end, req, busy, cfg.BufferMinutes)
	}
	return slots
}

type window struct {
	start time.Time
	end   time.Time
}

// dayWindow resolves a local day's bookable window. Closed weekdays, holiday
// dates and weekdays without configured hours yield ok=false. Malformed hour
// strings are treated as closed rather than failing the whole computation.
func dayWindow(cfg *Config, day time.Time) (window, bool) {
	weekday := timeutil.WeekdayAbbrev(day)
	if cfg.ClosedDays[weekday] {
		return window{}, false
	}
	for _, holiday := range cfg.Holidays {
		if timeutil.SameDate(day, holiday) {
			return window{}, false
		}
	}

	hours, ok := cfg.BusinessHours[weekday]
	if !ok {
		return window{}, false
	}
	start, err := timeutil.CombineTime(day, hours.Start)
	if err != nil {
		return window{}, false
	}
	end, err := timeutil.CombineTime(day, hours.End)
	if err != nil || !end.After(start) {
		return window{}, false
	}
	return window{start: start, end: end}, true
}

// capReached reports whether day is already at its per-day or per-week
// booking cap, counting existing events by their tenant-local start time.
// Weeks start on Monday.
func capReached(cfg *Config, day time.Time, existing []EventTime) bool {
	if cfg.MaxBookingsPerDay <= 0 && cfg.MaxBookingsPerWeek <= 0 {
		return false
	}

	if cfg.MaxBookingsPerDay > 0 {
		count := countEventsBetween(existing, day, timeutil.AddDays(day, 1), cfg.Location)
		if count >= cfg.MaxBookingsPerDay {
			return true
		}
	}

	if cfg.MaxBookingsPerWeek > 0 {
		weekStart := timeutil.WeekStart(day)
		count := countEventsBetween(existing, weekStart, timeutil.AddDays(weekStart, 7), cfg.Location)
		if count >= cfg.MaxBookingsPerWeek {
			return true
		}
	}

	return false
}

func countEventsBetween(existing []EventTime, from, to time.Time, loc *time.Location) int {
	count := 0
	for _, ev := range existing {
		start := ev.Start.In(loc)
		if !start.Before(from) && start.Before(to) {
			count++
		}
	}
	return count
}

// collectDaySlots walks the cursor from start in interval strides and appends
// candidates that clear the busy periods, up to the overall MaxSlots cap.
func collectDaySlots(slots []Slot, start, end time.Time, req SlotRequest, busy []BusyPeriod, buffer time.Duration) []Slot {
	for cursor := start; !cursor.Add(req.Duration()).After(end) && len(slots) < req.MaxSlots; cursor = cursor.Add(req.Interval()) {
		candidate := Slot{
			Start: cursor.UTC(),
			End:   cursor.Add(req.Duration()).UTC(),
		}
		if blockedByBusy(candidate, busy, buffer) {
			continue
		}
		slots = append(slots, candidate)
	}
	return slots
}

// blockedByBusy checks the candidate against every busy period with the
// period's end extended forward by the buffer: a meeting ending at T still
// blocks candidates starting before T+buffer.
func blockedByBusy(candidate Slot, busy []BusyPeriod, buffer time.Duration) bool {
	for _, b := range busy {
		if candidate.Start.Before(b.End.Add(buffer)) && candidate.End.After(b.Start) {
			return true
		}
	}
	return false
}
