package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/reservations/", "201", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/reservations/", "201"))
	assert.Equal(t, float64(1), count)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/users/login", "200", 0.1)
	RecordHTTPRequest("POST", "/users/login", "200", 0.2)
	RecordHTTPRequest("POST", "/users/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/users/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/users/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordReservation(t *testing.T) {
	ReservationsTotal.Reset()

	RecordReservation("confirmed")
	RecordReservation("confirmed")
	RecordReservation("rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(ReservationsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ReservationsTotal.WithLabelValues("rejected")))
}

func TestRecordCancellation(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "barslot_reservation_cancellations_total_test",
			Help: "Total number of reservation cancellations",
		},
	)

	oldCounter := ReservationCancellationsTotal
	ReservationCancellationsTotal = testCounter
	defer func() { ReservationCancellationsTotal = oldCounter }()

	RecordCancellation()
	RecordCancellation()

	assert.Equal(t, float64(2), testutil.ToFloat64(testCounter))
}

func TestRecordSlotsProvisioned(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "barslot_slots_provisioned_total_test",
			Help: "Total number of availability slots created",
		},
	)

	oldCounter := SlotsProvisionedTotal
	SlotsProvisionedTotal = testCounter
	defer func() { SlotsProvisionedTotal = oldCounter }()

	RecordSlotsProvisioned(28)
	RecordSlotsProvisioned(0)

	assert.Equal(t, float64(28), testutil.ToFloat64(testCounter))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("booking_confirmation", "success")
	RecordEmail("booking_confirmation", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("booking_confirmation", "failed")))
}

func TestRecordEvent(t *testing.T) {
	EventsPublishedTotal.Reset()

	RecordEvent("reservation.confirmed", "success")

	assert.Equal(t, float64(1), testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("reservation.confirmed", "success")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
