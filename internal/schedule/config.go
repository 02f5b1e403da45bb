// Package schedule implements tenant scheduling configuration and the
// availability calculator that produces bookable slots from a calendar's busy
// periods.
package schedule

import (
	"fmt"
	"time"

	"slotwire/internal/timeutil"
)

// Defaults applied when a tenant leaves scheduling fields unset.
const (
	DefaultDaysAhead    = 7
	DefaultSlotDuration = 30
	DefaultSlotInterval = 30
	DefaultMaxSlots     = 5
)

// DayHours is a single weekday's opening window in "HH:MM" local time.
type DayHours struct {
	Start string
	End   string
}

// RawConfig is the tenant scheduling configuration as it arrives from the
// caller: partially specified, every field optional. Unknown weekday keys are
// carried through and simply never match a generated day.
type RawConfig struct {
	Timezone                     string              `json:"timezone"`
	BusinessHours                map[string][]string `json:"businessHours"`
	ClosedDays                   []string            `json:"closedDays"`
	HolidayDates                 []string            `json:"holidayDates"`
	BufferMinutesBetweenMeetings int                 `json:"bufferMinutesBetweenMeetings"`
	MaxBookingsPerDay            int                 `json:"maxBookingsPerDay"`
	MaxBookingsPerWeek           int                 `json:"maxBookingsPerWeek"`
}

// Config is a fully-populated, immutable scheduling configuration. Built once
// per request by Normalize and consumed by the calculator.
type Config struct {
	Timezone string
	Location *time.Location

	// BusinessHours maps weekday abbreviation ("Mon".."Sun") to opening
	// hours. Weekdays absent from the map are closed.
	BusinessHours map[string]DayHours

	ClosedDays map[string]bool

	// Holidays are local midnights; matched by calendar date only.
	Holidays []time.Time

	BufferMinutes time.Duration

	// Zero means no cap.
	MaxBookingsPerDay  int
	MaxBookingsPerWeek int
}

// DefaultBusinessHours returns the Mon-Fri 09:00-17:00 default map.
func DefaultBusinessHours() map[string]DayHours {
	hours := make(map[string]DayHours, 5)
	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri"} {
		hours[day] = DayHours{Start: "09:00", End: "17:00"}
	}
	return hours
}

// Normalize fills defaults into a raw tenant configuration and resolves the
// timezone. The only rejected input is an unknown timezone; holiday entries
// that fail to parse as YYYY-MM-DD are dropped, and unknown weekday keys are
// harmless.
func Normalize(raw RawConfig) (*Config, error) {
	tz := raw.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", tz)
	}

	cfg := &Config{
		Timezone:           tz,
		Location:           loc,
		BufferMinutes:      time.Duration(raw.BufferMinutesBetweenMeetings) * time.Minute,
		MaxBookingsPerDay:  raw.MaxBookingsPerDay,
		MaxBookingsPerWeek: raw.MaxBookingsPerWeek,
	}
	if cfg.BufferMinutes < 0 {
		cfg.BufferMinutes = 0
	}
	if cfg.MaxBookingsPerDay < 0 {
		cfg.MaxBookingsPerDay = 0
	}
	if cfg.MaxBookingsPerWeek < 0 {
		cfg.MaxBookingsPerWeek = 0
	}

	// An explicitly empty map means every weekday is closed; only an
	// absent field gets the Mon-Fri default.
	if raw.BusinessHours == nil {
		cfg.BusinessHours = DefaultBusinessHours()
	} else {
		cfg.BusinessHours = make(map[string]DayHours, len(raw.BusinessHours))
		for day, window := range raw.BusinessHours {
			if len(window) < 2 {
				continue
			}
			cfg.BusinessHours[day] = DayHours{Start: window[0], End: window[1]}
		}
	}

	if raw.ClosedDays == nil {
		cfg.ClosedDays = map[string]bool{"Sat": true, "Sun": true}
	} else {
		cfg.ClosedDays = make(map[string]bool, len(raw.ClosedDays))
		for _, day := range raw.ClosedDays {
			cfg.ClosedDays[day] = true
		}
	}

	for _, s := range raw.HolidayDates {
		date, err := timeutil.ParseLocalDate(s, loc)
		if err != nil {
			continue
		}
		cfg.Holidays = append(cfg.Holidays, date)
	}

	return cfg, nil
}

// SlotRequest describes one slot-generation request. Zero values are replaced
// with defaults by NormalizeRequest.
type SlotRequest struct {
	DaysAhead           int
	SlotDurationMinutes int
	SlotIntervalMinutes int
	MaxSlots            int
	SkipPastTimeToday   bool
}

// NormalizeRequest fills defaults into a slot request. skipPast is a pointer
// because its default (true) differs from the zero value.
func NormalizeRequest(daysAhead, durationMinutes, intervalMinutes, maxSlots int, skipPast *bool) SlotRequest {
	req := SlotRequest{
		DaysAhead:           daysAhead,
		SlotDurationMinutes: durationMinutes,
		SlotIntervalMinutes: intervalMinutes,
		MaxSlots:            maxSlots,
		SkipPastTimeToday:   true,
	}
	if req.DaysAhead <= 0 {
		req.DaysAhead = DefaultDaysAhead
	}
	if req.SlotDurationMinutes <= 0 {
		req.SlotDurationMinutes = DefaultSlotDuration
	}
	if req.SlotIntervalMinutes <= 0 {
		req.SlotIntervalMinutes = DefaultSlotInterval
	}
	if req.MaxSlots <= 0 {
		req.MaxSlots = DefaultMaxSlots
	}
	if skipPast != nil {
		req.SkipPastTimeToday = *skipPast
	}
	return req
}

// Duration returns the slot length.
func (r SlotRequest) Duration() time.Duration {
	return time.Duration(r.SlotDurationMinutes) * time.Minute
}

// Interval returns the stride between candidate start times.
func (r SlotRequest) Interval() time.Duration {
	return time.Duration(r.SlotIntervalMinutes) * time.Minute
}
