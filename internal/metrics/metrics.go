package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	availabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "availability_checks_total",
			Help:      "Free/busy checks by result (free, busy, error).",
		},
		[]string{"result"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "bookings_created_total",
			Help:      "Calendar events created by booking type.",
		},
		[]string{"type"},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "bookings_cancelled_total",
			Help:      "Calendar events cancelled.",
		},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "emails_sent_total",
			Help:      "Notification emails dispatched by kind.",
		},
		[]string{"kind"},
	)

	providerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "w9booking",
			Name:      "provider_errors_total",
			Help:      "Google API failures by operation.",
		},
		[]string{"operation"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			availabilityChecks,
			bookingsCreated,
			bookingsCancelled,
			emailsSent,
			providerErrors,
		)
	})
}

// IncHTTP increments the counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

func IncAvailabilityCheck(result string) {
	availabilityChecks.WithLabelValues(result).Inc()
}

func IncBookingCreated(bookingType string) {
	bookingsCreated.WithLabelValues(bookingType).Inc()
}

func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

func IncEmailSent(kind string) {
	emailsSent.WithLabelValues(kind).Inc()
}

func IncProviderError(operation string) {
	providerErrors.WithLabelValues(operation).Inc()
}
