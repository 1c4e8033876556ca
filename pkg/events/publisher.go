package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bonzai/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingModified  Type = "booking.modified"
	BookingCancelled Type = "booking.cancelled"
)

// Header keys shared with downstream consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

// Event is the booking lifecycle notification published after a committed
// operation. It is informational; the store remains the source of truth.
type Event struct {
	EventID    string    `json:"eventId"`
	Type       Type      `json:"type"`
	BookingID  string    `json:"bookingId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType Type, bookingID string, payload any) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

// NewKafkaPublisher builds a publisher over one topic. Messages are keyed
// by booking ID so all events for a booking land in one partition, in order.
func NewKafkaPublisher(brokers []string, topic, source string, log *logger.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &kafkaPublisher{writer: writer, source: source, log: log}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType Type, bookingID string, payload any) error {
	evt := Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(bookingID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(evt.EventID)},
			{Key: HeaderEventType, Value: []byte(string(eventType))},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.log.Debug("Event published",
		"event_id", evt.EventID,
		"event_type", eventType,
		"booking_id", bookingID,
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher is used when no brokers are configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Type, string, any) error { return nil }
func (nopPublisher) Close() error                                     { return nil }
