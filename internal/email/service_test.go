package email

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/metrics"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type fakeSender struct {
	err  error
	sent []*mail.Msg
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func newTestService(rdb *redis.Client, sender Sender) *Service {
	return New(rdb, sender, "noreply@barslot.app", "BarSlot")
}

func confirmedSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		ReservationID: 42,
		UserID:        7,
		BarID:         1,
		BarName:       "Dakiti Club",
		BarAddress:    "Carrera 22 #52, Bogotá",
		FullName:      "Juan Pérez",
		Phone:         "+57 300 1234567",
		PartySize:     4,
		Date:          ledger.NewDate(2024, time.November, 15),
		TimeSlot:      "22:00",
		Status:        ledger.StatusConfirmed,
	}
}

func TestEnqueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(QueueKey, `.*`).SetVal(1)

	svc := newTestService(db, nil)
	err := svc.Enqueue(ctx, Job{Type: "test", To: "user@example.com", Subject: "Hello", Text: "Test body"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyBookingConfirmed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(QueueKey, `.*`).SetVal(1)

	svc := newTestService(db, nil)
	ok := svc.NotifyBookingConfirmed(ctx, confirmedSnapshot(), "juan@example.com")
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyBookingConfirmed_QueueDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(QueueKey, `.*`).SetErr(errors.New("connection refused"))

	before := testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues(TypeBookingConfirmation, "failed"))

	svc := newTestService(db, nil)
	ok := svc.NotifyBookingConfirmed(ctx, confirmedSnapshot(), "juan@example.com")
	assert.False(t, ok)

	after := testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues(TypeBookingConfirmation, "failed"))
	assert.Equal(t, before+1, after)
}

func TestNotifyBookingConfirmed_NoRecipient(t *testing.T) {
	db, mock := redismock.NewClientMock()

	svc := newTestService(db, nil)
	assert.False(t, svc.NotifyBookingConfirmed(context.Background(), confirmedSnapshot(), ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderConfirmation(t *testing.T) {
	snap := confirmedSnapshot()
	snap.FullName = "<script>alert(1)</script>"
	snap.Notes = "Birthday"

	html, text, err := renderConfirmation(snap)
	require.NoError(t, err)

	assert.Contains(t, html, "#000042")
	assert.Contains(t, html, "2024-11-15")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, text, "<script>alert(1)</script>")
	assert.Contains(t, text, "Guests: 4")
	assert.Contains(t, text, "Notes:  Birthday")
}

func queuedJob(t *testing.T, job Job) string {
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestProcessNext_Sends(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()
	sender := &fakeSender{}

	job := Job{Type: TypeBookingConfirmation, To: "juan@example.com", Name: "Juan", Subject: "Hi", HTML: "<p>Hi</p>", Text: "Hi"}
	mock.ExpectBRPop(popTimeout, QueueKey).SetVal([]string{QueueKey, queuedJob(t, job)})

	before := testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues(TypeBookingConfirmation, "sent"))

	svc := newTestService(db, sender)
	assert.True(t, svc.processNext(ctx))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"Hi"}, sender.sent[0].GetGenHeader(mail.HeaderSubject))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues(TypeBookingConfirmation, "sent")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_FailureIsParkedNotRetried(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()
	sender := &fakeSender{err: errors.New("535 authentication failed")}

	job := Job{Type: TypeBookingConfirmation, To: "juan@example.com", Subject: "Hi", Text: "Hi"}
	mock.ExpectBRPop(popTimeout, QueueKey).SetVal([]string{QueueKey, queuedJob(t, job)})
	mock.Regexp().ExpectLPush(FailedQueueKey, `.*`).SetVal(1)

	svc := newTestService(db, sender)
	assert.True(t, svc.processNext(ctx))

	assert.Len(t, sender.sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_EmptyQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}

	mock.ExpectBRPop(popTimeout, QueueKey).RedisNil()

	svc := newTestService(db, sender)
	assert.False(t, svc.processNext(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestProcessNext_MalformedJob(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}

	mock.ExpectBRPop(popTimeout, QueueKey).SetVal([]string{QueueKey, "{not json"})

	svc := newTestService(db, sender)
	assert.True(t, svc.processNext(context.Background()))
	assert.Empty(t, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(QueueKey).SetVal(3)

	svc := newTestService(db, nil)
	n, err := svc.QueueLength(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStart_StopsOnCancel(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc := newTestService(db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
