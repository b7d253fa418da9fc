package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// BookingEvent is the payload published for every notification. The
// worker consumes these and delivers the message over the requested
// channel.
type BookingEvent struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	BookingID      *uuid.UUID `json:"booking_id,omitempty"`
	UserID         uuid.UUID  `json:"user_id"`
	Action         string     `json:"action"`
	Channel        string     `json:"channel"`
	Recipient      string     `json:"recipient"`
	Message        string     `json:"message"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// Producer publishes booking events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a producer writing to the given topic
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish writes a single event keyed by notification ID so per
// notification ordering is preserved across partitions
func (p *Producer) Publish(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.NotificationID.String()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
