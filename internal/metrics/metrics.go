package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barslot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barslot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barslot_reservations_total",
			Help: "Total number of reservation attempts by outcome",
		},
		[]string{"status"},
	)

	CapacityRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barslot_capacity_rejections_total",
			Help: "Total number of bookings rejected because the slot was full",
		},
	)

	ReservationCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barslot_reservation_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
	)

	SlotsProvisionedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barslot_slots_provisioned_total",
			Help: "Total number of availability slots created",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barslot_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "barslot_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barslot_events_published_total",
			Help: "Total number of reservation events published",
		},
		[]string{"kind", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(status string) {
	ReservationsTotal.WithLabelValues(status).Inc()
}

func RecordCapacityRejection() {
	CapacityRejectionsTotal.Inc()
}

func RecordCancellation() {
	ReservationCancellationsTotal.Inc()
}

func RecordSlotsProvisioned(n int) {
	if n > 0 {
		SlotsProvisionedTotal.Add(float64(n))
	}
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(kind, status string) {
	EventsPublishedTotal.WithLabelValues(kind, status).Inc()
}
