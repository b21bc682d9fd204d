package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawn_booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lawn_booking",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lawn_booking",
			Name:      "bookings_created_total",
			Help:      "Bookings persisted.",
		},
	)

	slotConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawn_booking",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		},
		[]string{"event_timing"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsCreated, slotConflicts)
	})
}

func ObserveHTTP(method, route string, status int, seconds float64) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncSlotConflict(eventTiming string) {
	slotConflicts.WithLabelValues(eventTiming).Inc()
}
