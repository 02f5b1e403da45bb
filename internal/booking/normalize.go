// Package booking validates booking requests and materializes them as
// calendar-provider events.
package booking

import (
	"encoding/json"
	"strings"
	"time"

	"slotwire/internal/apperr"
)

// RawSlot is a slot as sent by the caller, with ISO-8601 instants.
type RawSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RawRequest is a booking request as decoded from the wire. Several fields
// accept more than one shape: the slot may be nested or flat, attendees may
// be a string, a JSON-encoded array string or an array, and addMeetLink may
// be a boolean or the strings "true"/"false". ParseRequest coerces all of
// them into a strongly-typed Request.
type RawRequest struct {
	Slot        *RawSlot        `json:"slot"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Attendees   json.RawMessage `json:"attendees"`
	AddMeetLink json.RawMessage `json:"addMeetLink"`
}

// Request is the normalized, validated booking request.
type Request struct {
	Start       time.Time
	End         time.Time
	Title       string
	Description string
	Attendees   []string
	AddMeetLink bool
}

// ParseRequest coerces a raw request into a Request, returning a
// ValidationError naming the offending field on bad input.
func ParseRequest(raw RawRequest) (*Request, error) {
	startStr, endStr := raw.Start, raw.End
	if raw.Slot != nil {
		startStr, endStr = raw.Slot.Start, raw.Slot.End
	}
	if startStr == "" || endStr == "" {
		return nil, apperr.NewValidation("slot", "start and end are required")
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, apperr.NewValidation("slot.start", "not a valid ISO-8601 instant")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, apperr.NewValidation("slot.end", "not a valid ISO-8601 instant")
	}
	if !end.After(start) {
		return nil, apperr.NewValidation("slot", "end must be after start")
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return nil, apperr.NewValidation("title", "required")
	}

	attendees, err := normalizeAttendees(raw.Attendees)
	if err != nil {
		return nil, err
	}

	addMeet, err := normalizeBool("addMeetLink", raw.AddMeetLink)
	if err != nil {
		return nil, err
	}

	return &Request{
		Start:       start,
		End:         end,
		Title:       title,
		Description: strings.TrimSpace(raw.Description),
		Attendees:   attendees,
		AddMeetLink: addMeet,
	}, nil
}

// normalizeAttendees accepts an array of strings, a single address string, or
// a JSON-encoded array inside a string, and returns trimmed, de-duplicated,
// non-empty addresses in first-seen order.
func normalizeAttendees(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return dedupeAddresses(list), nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, apperr.NewValidation("attendees", "expected string or array of strings")
	}

	single = strings.TrimSpace(single)
	// A string value may itself be a JSON-encoded array.
	if strings.HasPrefix(single, "[") {
		if err := json.Unmarshal([]byte(single), &list); err != nil {
			return nil, apperr.NewValidation("attendees", "malformed JSON array string")
		}
		return dedupeAddresses(list), nil
	}
	return dedupeAddresses([]string{single}), nil
}

func dedupeAddresses(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, addr := range in {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// normalizeBool accepts a JSON boolean or the literal strings
// "true"/"false".
func normalizeBool(field string, raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, nil
		case "false", "":
			return false, nil
		}
	}
	return false, apperr.NewValidation(field, `expected boolean or "true"/"false"`)
}
