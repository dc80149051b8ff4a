package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/wneessen/go-mail"
)

const (
	QueueKey       = "emails"
	FailedQueueKey = "emails:failed"

	TypeBookingConfirmation = "booking_confirmation"

	popTimeout = 2 * time.Second
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

type failedJob struct {
	Job    Job       `json:"job"`
	Error  string    `json:"error"`
	Failed time.Time `json:"failed"`
}

// Service queues emails on Redis and a single worker drains the queue.
// Each job gets exactly one delivery attempt.
type Service struct {
	redis    *redis.Client
	sender   Sender
	from     string
	fromName string
}

func New(rdb *redis.Client, sender Sender, fromEmail, fromName string) *Service {
	return &Service{
		redis:    rdb,
		sender:   sender,
		from:     fromEmail,
		fromName: fromName,
	}
}

func (s *Service) Enqueue(ctx context.Context, job Job) error {
	if job.Created.IsZero() {
		job.Created = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("queue email to %s: %w", job.To, err)
	}

	logger.Info("email queued", "type", job.Type, "to", job.To)
	return nil
}

// NotifyBookingConfirmed renders the confirmation and queues it. Failures are
// logged and reported as false.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, snap ledger.Snapshot, recipient string) bool {
	if recipient == "" {
		logger.Warn("booking confirmation has no recipient", "reservation_id", snap.ReservationID)
		return false
	}

	html, text, err := renderConfirmation(snap)
	if err != nil {
		logger.Error("failed to render booking confirmation", "reservation_id", snap.ReservationID, "error", err)
		metrics.RecordEmail(TypeBookingConfirmation, "failed")
		return false
	}

	job := Job{
		Type:    TypeBookingConfirmation,
		To:      recipient,
		Name:    snap.FullName,
		Subject: "Reservation confirmed - " + snap.BarName,
		HTML:    html,
		Text:    text,
	}
	if err := s.Enqueue(ctx, job); err != nil {
		logger.Error("failed to queue booking confirmation", "reservation_id", snap.ReservationID, "error", err)
		metrics.RecordEmail(TypeBookingConfirmation, "failed")
		return false
	}
	return true
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext pops one job and attempts delivery once. It reports whether a
// job was taken off the queue.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, popTimeout, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("email queue pop failed", "error", err)
			time.Sleep(popTimeout)
		}
		return false
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return true
	}

	if err := s.deliver(ctx, job); err != nil {
		logger.Error("email delivery failed", "type", job.Type, "to", job.To, "error", err)
		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(ctx, job, err)
		return true
	}

	logger.Info("email sent", "type", job.Type, "to", job.To)
	metrics.RecordEmail(job.Type, "sent")
	return true
}

func (s *Service) deliver(ctx context.Context, job Job) error {
	if s.sender == nil {
		return errors.New("no smtp sender configured")
	}
	msg, err := s.buildMessage(job)
	if err != nil {
		return err
	}
	return s.sender.DialAndSendWithContext(ctx, msg)
}

func (s *Service) buildMessage(job Job) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.AddToFormat(job.Name, job.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(job.Subject)

	switch {
	case job.Text != "" && job.HTML != "":
		msg.SetBodyString(mail.TypeTextPlain, job.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, job.HTML)
	case job.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, job.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, job.Text)
	}
	return msg, nil
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	data, err := json.Marshal(failedJob{Job: job, Error: cause.Error(), Failed: time.Now()})
	if err != nil {
		return
	}
	if err := s.redis.LPush(context.WithoutCancel(ctx), FailedQueueKey, data).Err(); err != nil {
		logger.Error("failed to park email job", "to", job.To, "error", err)
		return
	}
	logger.Warn("email moved to failed queue", "to", job.To)
}

func (s *Service) QueueLength(ctx context.Context) (int64, error) {
	return s.redis.LLen(ctx, QueueKey).Result()
}
