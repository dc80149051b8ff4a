package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/metrics"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type OpenFunc func() (Channel, error)

// Event is the message body. Each kind is routed to a durable queue of the
// same name on the default exchange.
type Event struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Reservation ledger.Snapshot `json:"reservation"`
}

type Publisher struct {
	open OpenFunc

	mu       sync.Mutex
	ch       Channel
	declared map[string]bool
}

func NewPublisher(open OpenFunc) *Publisher {
	return &Publisher{open: open, declared: make(map[string]bool)}
}

// Dial returns an OpenFunc that connects to the broker at url. The channel's
// Close also closes the connection.
func Dial(url string) OpenFunc {
	return func() (Channel, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open rabbitmq channel: %w", err)
		}
		return &session{Channel: ch, conn: conn}, nil
	}
}

type session struct {
	*amqp.Channel
	conn *amqp.Connection
}

func (s *session) Close() error {
	_ = s.Channel.Close()
	return s.conn.Close()
}

func (p *Publisher) Publish(ctx context.Context, kind string, snap ledger.Snapshot) error {
	occurred := snap.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		OccurredAt:  occurred,
		Reservation: snap,
	}

	body, err := json.Marshal(event)
	if err != nil {
		metrics.RecordEvent(kind, "failed")
		return fmt.Errorf("marshal %s event: %w", kind, err)
	}

	if err := p.publish(ctx, kind, event.ID, body); err != nil {
		metrics.RecordEvent(kind, "failed")
		return err
	}

	metrics.RecordEvent(kind, "published")
	logger.Debug("event published", "kind", kind, "event_id", event.ID, "reservation_id", snap.ReservationID)
	return nil
}

func (p *Publisher) publish(ctx context.Context, queue, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, err := p.open()
		if err != nil {
			return err
		}
		p.ch = ch
		p.declared = make(map[string]bool)
	}

	if !p.declared[queue] {
		if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.reset()
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	err := p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

// reset drops a broken channel so the next publish reconnects. Caller holds mu.
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	p.ch = nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
