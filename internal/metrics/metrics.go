// Package metrics exposes Prometheus counters for the scheduling API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	slotRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwire",
			Name:      "slot_requests_total",
			Help:      "Slot computation requests by outcome.",
		},
		[]string{"outcome"},
	)

	slotsReturned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "slotwire",
			Name:      "slots_returned_total",
			Help:      "Total candidate slots returned to callers.",
		},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwire",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	providerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "slotwire",
			Name:      "provider_errors_total",
			Help:      "Upstream calendar-provider failures by call.",
		},
		[]string{"call"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(slotRequests, slotsReturned, bookings, providerErrors)
	})
}

func IncSlotRequest(outcome string) {
	slotRequests.WithLabelValues(outcome).Inc()
}

func AddSlotsReturned(n int) {
	slotsReturned.Add(float64(n))
}

func IncBooking(outcome string) {
	bookings.WithLabelValues(outcome).Inc()
}

func IncProviderError(call string) {
	providerErrors.WithLabelValues(call).Inc()
}
