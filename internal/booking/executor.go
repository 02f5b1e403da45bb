package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"slotwire/internal/apperr"
	"slotwire/internal/schedule"
)

// CalendarEvent is the provider-side result of a successful booking.
type CalendarEvent struct {
	EventID  string    `json:"eventId"`
	HTMLLink string    `json:"htmlLink"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	MeetLink string    `json:"meetLink,omitempty"`
}

// EventInput is the payload handed to the calendar provider. Start and end
// always carry the tenant timezone as explicit metadata.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	Attendees   []string

	// ConferenceRequestID, when non-empty, asks the provider to attach a
	// conferencing link. It is unique per request so a retried client
	// request does not collide on conferencing resource identifiers.
	ConferenceRequestID string
}

// EventCreator is the calendar provider's write surface. notifyAll requests
// that all attendees are notified of the new event.
type EventCreator interface {
	CreateEvent(ctx context.Context, calendarID string, in EventInput, notifyAll bool) (*CalendarEvent, error)
}

// EventPublisher receives booking outcome events for the audit trail.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// Outcome event types published by the executor.
const (
	EventBookingCreated = "booking.created"
	EventBookingFailed  = "booking.failed"
)

// OutcomeEvent is the payload published for every booking attempt.
type OutcomeEvent struct {
	TenantID  string    `json:"tenantId"`
	SlotStart time.Time `json:"slotStart"`
	SlotEnd   time.Time `json:"slotEnd"`
	EventID   string    `json:"eventId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Executor books a validated slot by issuing exactly one create-event call.
// It holds no state between requests; a failed call is surfaced, never
// retried.
type Executor struct {
	bus             EventPublisher
	logger          zerolog.Logger
	newConferenceID func() string
}

// NewExecutor creates a booking executor. bus may be nil to disable outcome
// events.
func NewExecutor(bus EventPublisher, logger zerolog.Logger) *Executor {
	return &Executor{
		bus:             bus,
		logger:          logger.With().Str("component", "booking").Logger(),
		newConferenceID: uuid.NewString,
	}
}

// BookSlot materializes req as a calendar event on the tenant's calendar.
// The slot is re-validated defensively; no remote call is issued for invalid
// input. The provider's event store is the sole consistency boundary: nothing
// here detects or prevents a concurrent booking of the same slot.
func (e *Executor) BookSlot(ctx context.Context, creator EventCreator, tenantID, calendarID string, cfg *schedule.Config, req *Request) (*CalendarEvent, error) {
	if req == nil {
		return nil, apperr.NewValidation("request", "required")
	}
	if !req.End.After(req.Start) {
		return nil, apperr.NewValidation("slot", "end must be after start")
	}

	in := EventInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Timezone:    cfg.Timezone,
		Attendees:   req.Attendees,
	}
	if req.AddMeetLink {
		in.ConferenceRequestID = e.newConferenceID()
	}

	created, err := creator.CreateEvent(ctx, calendarID, in, true)
	if err != nil {
		e.publish(EventBookingFailed, OutcomeEvent{
			TenantID:  tenantID,
			SlotStart: req.Start,
			SlotEnd:   req.End,
			Detail:    err.Error(),
		})
		if apperr.IsProvider(err) {
			return nil, err
		}
		return nil, apperr.WrapProvider("create event", err)
	}

	e.logger.Info().
		Str("tenant_id", tenantID).
		Str("event_id", created.EventID).
		Time("start", created.Start).
		Msg("booking created")

	e.publish(EventBookingCreated, OutcomeEvent{
		TenantID:  tenantID,
		SlotStart: created.Start,
		SlotEnd:   created.End,
		EventID:   created.EventID,
	})

	return created, nil
}

func (e *Executor) publish(eventType string, payload OutcomeEvent) {
	if e.bus == nil {
		return
	}
	if err := e.bus.PublishJSON(eventType, payload); err != nil {
		e.logger.Warn().Err(err).Str("event_type", eventType).Msg("publishing booking outcome failed")
	}
}
