// Package audit persists a trail of booking attempts and exports it as an
// Excel workbook for back-office review.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"slotwire/internal/booking"
	"slotwire/internal/events"
	"slotwire/internal/store"
)

// Recorder subscribes to booking outcome events and writes audit entries.
type Recorder struct {
	db     *store.DB
	logger zerolog.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(db *store.DB, logger zerolog.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Attach subscribes the recorder to booking outcome events on the bus.
func (r *Recorder) Attach(bus *events.Bus) {
	bus.Subscribe(booking.EventBookingCreated, r.handle("created"))
	bus.Subscribe(booking.EventBookingFailed, r.handle("failed"))
}

func (r *Recorder) handle(action string) events.Handler {
	return func(event events.Event) {
		var outcome booking.OutcomeEvent
		if err := json.Unmarshal(event.Payload, &outcome); err != nil {
			r.logger.Warn().Err(err).Str("type", event.Type).Msg("undecodable booking event")
			return
		}

		entry := &store.AuditEntry{
			ID:        uuid.NewString(),
			TenantID:  outcome.TenantID,
			Action:    action,
			SlotStart: outcome.SlotStart,
			SlotEnd:   outcome.SlotEnd,
			EventID:   outcome.EventID,
			Detail:    outcome.Detail,
			CreatedAt: event.CreatedAt.UTC(),
		}
		// Audit writes must not fail a booking that already succeeded.
		if err := r.db.InsertAuditEntry(context.Background(), entry); err != nil {
			r.logger.Error().Err(err).Str("tenant_id", outcome.TenantID).Msg("audit write failed")
		}
	}
}

// Entries returns audit entries created within [from, to).
func (r *Recorder) Entries(ctx context.Context, from, to time.Time) ([]store.AuditEntry, error) {
	return r.db.ListAuditEntries(ctx, from, to)
}
