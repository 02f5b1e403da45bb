package api

import (
	"net/http"
	"time"

	"slotwire/internal/apperr"
	"slotwire/internal/booking"
	"slotwire/internal/identity"
	"slotwire/internal/metrics"
	"slotwire/internal/schedule"
	"slotwire/internal/timeutil"
)

type computeSlotsRequest struct {
	TenantID   string `json:"tenantId"`
	WorkflowID string `json:"workflowId"`

	DaysAhead           int   `json:"daysAhead"`
	SlotDurationMinutes int   `json:"slotDurationMinutes"`
	SlotInterval        int   `json:"slotInterval"`
	MaxSlots            int   `json:"maxSlots"`
	SkipPastTimeToday   *bool `json:"skipPastTimeToday"`

	schedule.RawConfig
}

type slotPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type computeSlotsResponse struct {
	Slots []slotPayload `json:"slots"`
}

// handleComputeSlots implements POST /api/v1/slots/compute.
func (s *Server) handleComputeSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req computeSlotsRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.IncSlotRequest("bad_request")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !s.limiter.Allow(req.TenantID + "/" + req.WorkflowID) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	integ, err := s.resolver.Resolve(r.Context(), identity.Ref{TenantID: req.TenantID, WorkflowID: req.WorkflowID})
	if err != nil {
		metrics.IncSlotRequest("unauthorized")
		s.writeAppError(w, err)
		return
	}

	cfg, err := schedule.Normalize(req.RawConfig)
	if err != nil {
		metrics.IncSlotRequest("bad_request")
		s.writeAppError(w, apperr.NewValidation("timezone", err.Error()))
		return
	}
	slotReq := schedule.NormalizeRequest(req.DaysAhead, req.SlotDurationMinutes, req.SlotInterval, req.MaxSlots, req.SkipPastTimeToday)

	client, err := s.clientFor(r.Context(), integ.TokenSource)
	if err != nil {
		metrics.IncSlotRequest("error")
		s.writeAppError(w, apperr.WrapProvider("connect", err))
		return
	}

	slots, err := s.slots.ComputeSlots(r.Context(), client, integ.CalendarID, cfg, slotReq)
	if err != nil {
		metrics.IncSlotRequest("error")
		if apperr.IsProvider(err) {
			metrics.IncProviderError(providerOp(err))
		}
		s.writeAppError(w, err)
		return
	}

	resp := computeSlotsResponse{Slots: make([]slotPayload, 0, len(slots))}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, slotPayload{
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
		})
	}

	metrics.IncSlotRequest("ok")
	metrics.AddSlotsReturned(len(slots))
	writeJSON(w, http.StatusOK, resp)
}

type bookEventRequest struct {
	TenantID   string `json:"tenantId"`
	WorkflowID string `json:"workflowId"`
	Timezone   string `json:"timezone"`

	booking.RawRequest
}

// handleBookEvent implements POST /api/v1/bookings.
func (s *Server) handleBookEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req bookEventRequest
	if err := decodeJSON(r, &req); err != nil {
		metrics.IncBooking("bad_request")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !s.limiter.Allow(req.TenantID + "/" + req.WorkflowID) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	parsed, err := booking.ParseRequest(req.RawRequest)
	if err != nil {
		metrics.IncBooking("validation_error")
		s.writeAppError(w, err)
		return
	}

	integ, err := s.resolver.Resolve(r.Context(), identity.Ref{TenantID: req.TenantID, WorkflowID: req.WorkflowID})
	if err != nil {
		metrics.IncBooking("unauthorized")
		s.writeAppError(w, err)
		return
	}

	cfg, err := schedule.Normalize(schedule.RawConfig{Timezone: req.Timezone})
	if err != nil {
		metrics.IncBooking("validation_error")
		s.writeAppError(w, apperr.NewValidation("timezone", err.Error()))
		return
	}

	client, err := s.clientFor(r.Context(), integ.TokenSource)
	if err != nil {
		metrics.IncBooking("error")
		s.writeAppError(w, apperr.WrapProvider("connect", err))
		return
	}

	created, err := s.executor.BookSlot(r.Context(), client, integ.TenantID, integ.CalendarID, cfg, parsed)
	if err != nil {
		if apperr.IsProvider(err) {
			metrics.IncBooking("provider_error")
			metrics.IncProviderError(providerOp(err))
		} else {
			metrics.IncBooking("validation_error")
		}
		s.writeAppError(w, err)
		return
	}

	metrics.IncBooking("created")
	writeJSON(w, http.StatusCreated, created)
}

// handleAuditExport implements GET /api/v1/audit/export?from=YYYY-MM-DD&to=YYYY-MM-DD.
// The range defaults to the last 30 days.
func (s *Server) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	if s.auditor == nil {
		writeError(w, http.StatusNotFound, "audit export disabled")
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := timeutil.ParseLocalDate(v, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := timeutil.ParseLocalDate(v, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Inclusive end date.
		to = parsed.AddDate(0, 0, 1)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := s.auditor.ExportXLSX(r.Context(), from, to, w); err != nil {
		s.logger.Error().Err(err).Msg("audit export failed")
	}
}
