// Package api exposes the scheduling engine over HTTP/JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"slotwire/internal/apperr"
	"slotwire/internal/audit"
	"slotwire/internal/booking"
	"slotwire/internal/identity"
	"slotwire/internal/schedule"
)

// CalendarClient combines the calendar provider's read and write surfaces.
type CalendarClient interface {
	schedule.Oracle
	booking.EventCreator
}

// ClientFunc builds a tenant-scoped calendar client from a credential.
type ClientFunc func(ctx context.Context, ts oauth2.TokenSource) (CalendarClient, error)

// Server handles slot-computation and booking requests.
type Server struct {
	resolver  identity.Resolver
	clientFor ClientFunc
	slots     *schedule.Service
	executor  *booking.Executor
	auditor   *audit.Recorder
	limiter   *identityLimiter
	logger    zerolog.Logger
}

// NewServer wires the HTTP layer. auditor may be nil to disable the export
// endpoint.
func NewServer(
	resolver identity.Resolver,
	clientFor ClientFunc,
	slots *schedule.Service,
	executor *booking.Executor,
	auditor *audit.Recorder,
	rateRPS float64,
	rateBurst int,
	logger zerolog.Logger,
) *Server {
	return &Server{
		resolver:  resolver,
		clientFor: clientFor,
		slots:     slots,
		executor:  executor,
		auditor:   auditor,
		limiter:   newIdentityLimiter(rateRPS, rateBurst),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/slots/compute", s.handleComputeSlots)
	mux.HandleFunc("/api/v1/bookings", s.handleBookEvent)
	mux.HandleFunc("/api/v1/audit/export", s.handleAuditExport)
	return s.logRequests(mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.IsAuthorization(err):
		writeError(w, http.StatusUnauthorized, err.Error())
	case apperr.IsIntegrationNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case apperr.IsProvider(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error().Err(err).Msg("unclassified request failure")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func providerOp(err error) string {
	var pe *apperr.ProviderError
	if errors.As(err, &pe) {
		return pe.Op
	}
	return "unknown"
}
