// Package gcal is the Google Calendar provider adapter: busy-period queries,
// event listing for booking caps, and event creation.
package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"slotwire/internal/booking"
	"slotwire/internal/schedule"
)

// Provider builds per-tenant calendar clients. Cache settings are shared;
// tokens are per tenant.
type Provider struct {
	redis    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewProvider creates a calendar provider factory.
func NewProvider(logger zerolog.Logger) *Provider {
	return &Provider{logger: logger.With().Str("component", "gcal").Logger()}
}

// UseRedisCache configures optional Redis caching for freebusy queries.
func (p *Provider) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	p.redis = redisClient
	p.cacheTTL = ttl
}

// ClientFor builds a client authenticated with the given token source.
func (p *Provider) ClientFor(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Client{
		svc:      svc,
		redis:    p.redis,
		cacheTTL: p.cacheTTL,
		logger:   p.logger,
	}, nil
}

// Client is a tenant-scoped Google Calendar client. It implements
// schedule.Oracle and booking.EventCreator.
type Client struct {
	svc      *calendar.Service
	redis    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// QueryBusy returns the calendar's busy intervals within [timeMin, timeMax),
// in UTC. Results may be served from a short-lived Redis cache when one is
// configured.
func (c *Client) QueryBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]schedule.BusyPeriod, error) {
	cacheKey := fmt.Sprintf("freebusy:%s:%d:%d", calendarID, timeMin.Unix(), timeMax.Unix())
	var cached []schedule.BusyPeriod
	if c.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	resp, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: timeMin.UTC().Format(time.RFC3339),
		TimeMax: timeMax.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from freebusy response", calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy query for %s: %s", calendarID, cal.Errors[0].Reason)
	}

	busy := make([]schedule.BusyPeriod, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", period.End, err)
		}
		busy = append(busy, schedule.BusyPeriod{Start: start.UTC(), End: end.UTC()})
	}

	c.writeCache(ctx, cacheKey, busy)
	return busy, nil
}

// ListEvents returns timed events within [timeMin, timeMax) for booking-cap
// checks. All-day events carry no instant and are skipped.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]schedule.EventTime, error) {
	resp, err := c.svc.Events.List(calendarID).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]schedule.EventTime, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Start == nil || item.Start.DateTime == "" || item.End == nil || item.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}
		events = append(events, schedule.EventTime{Start: start.UTC(), End: end.UTC()})
	}
	return events, nil
}

// CreateEvent inserts an event on the calendar. Start and end carry the
// tenant timezone explicitly; when in.ConferenceRequestID is set a Meet link
// is requested with that id. notifyAll maps to sendUpdates=all.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, in booking.EventInput, notifyAll bool) (*booking.CalendarEvent, error) {
	event := &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.Start.Format(time.RFC3339),
			TimeZone: in.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: in.End.Format(time.RFC3339),
			TimeZone: in.Timezone,
		},
	}
	for _, addr := range in.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: addr})
	}

	call := c.svc.Events.Insert(calendarID, event).Context(ctx)
	if notifyAll {
		call = call.SendUpdates("all")
	}
	if in.ConferenceRequestID != "" {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             in.ConferenceRequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	result := &booking.CalendarEvent{
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
		Start:    in.Start,
		End:      in.End,
		MeetLink: meetLink(created),
	}
	if created.Start != nil && created.Start.DateTime != "" {
		if start, err := time.Parse(time.RFC3339, created.Start.DateTime); err == nil {
			result.Start = start
		}
	}
	if created.End != nil && created.End.DateTime != "" {
		if end, err := time.Parse(time.RFC3339, created.End.DateTime); err == nil {
			result.End = end
		}
	}
	return result, nil
}

func meetLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, entry := range ev.ConferenceData.EntryPoints {
			if entry.EntryPointType == "video" && entry.Uri != "" {
				return entry.Uri
			}
		}
	}
	return ""
}
