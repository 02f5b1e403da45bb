package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"slotwire/internal/apperr"
	"slotwire/internal/timeutil"
)

// Oracle is the calendar provider's read surface: busy intervals for slot
// filtering and existing events for booking-cap checks. Both are expressed in
// UTC.
type Oracle interface {
	QueryBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]BusyPeriod, error)
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]EventTime, error)
}

// Service computes available slots for a tenant by combining the oracle's
// busy periods with the tenant's normalized scheduling configuration. It is
// stateless; one instance serves concurrent requests.
type Service struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a slot-computation service.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		logger: logger.With().Str("component", "schedule").Logger(),
		now:    time.Now,
	}
}

// ComputeSlots queries the oracle once for the full search window, then
// generates slots in memory. An empty result is a valid outcome. A freebusy
// failure aborts the request; a listEvents failure only disables cap checks
// for this request, since caps are an optimization rather than a safety
// property.
func (s *Service) ComputeSlots(ctx context.Context, oracle Oracle, calendarID string, cfg *Config, req SlotRequest) ([]Slot, error) {
	now := s.now().In(cfg.Location)
	windowStart := timeutil.DayStart(now)
	windowEnd := timeutil.DayStart(timeutil.AddDays(now, req.DaysAhead+1))

	// The busy window starts at local midnight, not now: with
	// skipPastTimeToday disabled the walk emits candidates earlier today.
	busy, err := oracle.QueryBusy(ctx, calendarID, windowStart.UTC(), windowEnd.UTC())
	if err != nil {
		return nil, apperr.WrapProvider("freebusy", err)
	}

	var existing []EventTime
	if cfg.MaxBookingsPerDay > 0 || cfg.MaxBookingsPerWeek > 0 {
		// Weekly caps count whole ISO weeks, which may begin before today
		// and end after the horizon.
		listStart := timeutil.WeekStart(now)
		listEnd := windowEnd
		if cfg.MaxBookingsPerWeek > 0 {
			lastDay := timeutil.DayStart(timeutil.AddDays(now, req.DaysAhead))
			if weekEnd := timeutil.AddDays(timeutil.WeekStart(lastDay), 7); weekEnd.After(listEnd) {
				listEnd = weekEnd
			}
		}
		existing, err = oracle.ListEvents(ctx, calendarID, listStart.UTC(), listEnd.UTC())
		if err != nil {
			s.logger.Warn().Err(err).
				Str("calendar_id", calendarID).
				Msg("listing events for booking caps failed; skipping cap checks")
			existing = nil
		}
	}

	slots := AvailableSlots(cfg, req, busy, existing, now)

	s.logger.Debug().
		Str("calendar_id", calendarID).
		Int("busy_periods", len(busy)).
		Int("slots", len(slots)).
		Msg("computed available slots")

	return slots, nil
}
