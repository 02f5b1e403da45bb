package booking

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"slotwire/internal/apperr"
	"slotwire/internal/schedule"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) CreateEvent(ctx context.Context, calendarID string, in EventInput, notifyAll bool) (*CalendarEvent, error) {
	args := m.Called(ctx, calendarID, in, notifyAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CalendarEvent), args.Error(1)
}

type mockBus struct {
	mock.Mock
}

func (m *mockBus) PublishJSON(eventType string, payload any) error {
	return m.Called(eventType, payload).Error(0)
}

func testConfig(t *testing.T) *schedule.Config {
	t.Helper()
	cfg, err := schedule.Normalize(schedule.RawConfig{Timezone: "America/New_York"})
	require.NoError(t, err)
	return cfg
}

func TestBookSlotRejectsInvalidSlotWithoutRemoteCall(t *testing.T) {
	creator := new(mockCreator)
	logger := zerolog.New(io.Discard)
	exec := NewExecutor(nil, logger)
	cfg := testConfig(t)

	start := time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC)
	req := &Request{Start: start, End: start.Add(-time.Hour), Title: "x"}

	_, err := exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	assert.True(t, apperr.IsValidation(err))
	creator.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookSlotBuildsEventPayload(t *testing.T) {
	creator := new(mockCreator)
	bus := new(mockBus)
	logger := zerolog.New(io.Discard)
	exec := NewExecutor(bus, logger)
	cfg := testConfig(t)

	start := time.Date(2025, 1, 16, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	req := &Request{
		Start:       start,
		End:         end,
		Title:       "Intro call",
		Description: "Discovery",
		Attendees:   []string{"a@x.com", "b@x.com"},
		AddMeetLink: true,
	}

	created := &CalendarEvent{
		EventID:  "ev-1",
		HTMLLink: "https://calendar.example/ev-1",
		Start:    start,
		End:      end,
		MeetLink: "https://meet.example/abc",
	}

	var captured EventInput
	creator.On("CreateEvent", mock.Anything, "cal-1", mock.MatchedBy(func(in EventInput) bool {
		captured = in
		return true
	}), true).Return(created, nil).Once()
	bus.On("PublishJSON", EventBookingCreated, mock.Anything).Return(nil).Once()

	got, err := exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.Equal(t, "Intro call", captured.Title)
	assert.Equal(t, "America/New_York", captured.Timezone)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, captured.Attendees)
	assert.NotEmpty(t, captured.ConferenceRequestID)

	creator.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestBookSlotConferenceIDUniquePerRequest(t *testing.T) {
	creator := new(mockCreator)
	logger := zerolog.New(io.Discard)
	exec := NewExecutor(nil, logger)
	cfg := testConfig(t)

	start := time.Date(2025, 1, 16, 14, 0, 0, 0, time.UTC)
	req := &Request{Start: start, End: start.Add(30 * time.Minute), Title: "x", AddMeetLink: true}

	var ids []string
	creator.On("CreateEvent", mock.Anything, "cal-1", mock.MatchedBy(func(in EventInput) bool {
		ids = append(ids, in.ConferenceRequestID)
		return true
	}), true).Return(&CalendarEvent{EventID: "ev"}, nil).Twice()

	_, err := exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	require.NoError(t, err)
	_, err = exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestBookSlotNoConferenceIDWithoutMeetLink(t *testing.T) {
	creator := new(mockCreator)
	logger := zerolog.New(io.Discard)
	exec := NewExecutor(nil, logger)
	cfg := testConfig(t)

	start := time.Date(2025, 1, 16, 14, 0, 0, 0, time.UTC)
	req := &Request{Start: start, End: start.Add(30 * time.Minute), Title: "x"}

	creator.On("CreateEvent", mock.Anything, "cal-1", mock.MatchedBy(func(in EventInput) bool {
		return in.ConferenceRequestID == ""
	}), true).Return(&CalendarEvent{EventID: "ev"}, nil).Once()

	_, err := exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	require.NoError(t, err)
	creator.AssertExpectations(t)
}

func TestBookSlotWrapsProviderFailure(t *testing.T) {
	creator := new(mockCreator)
	bus := new(mockBus)
	logger := zerolog.New(io.Discard)
	exec := NewExecutor(bus, logger)
	cfg := testConfig(t)

	start := time.Date(2025, 1, 16, 14, 0, 0, 0, time.UTC)
	req := &Request{Start: start, End: start.Add(30 * time.Minute), Title: "x"}

	creator.On("CreateEvent", mock.Anything, "cal-1", mock.Anything, true).
		Return(nil, errors.New("upstream 503")).Once()
	bus.On("PublishJSON", EventBookingFailed, mock.Anything).Return(nil).Once()

	_, err := exec.BookSlot(context.Background(), creator, "t1", "cal-1", cfg, req)
	assert.True(t, apperr.IsProvider(err))
	assert.Contains(t, err.Error(), "upstream 503")
	bus.AssertExpectations(t)
}
