package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sender delivers one notification over its channel and returns the
// provider's message ID when the channel echoes one back
type Sender interface {
	Send(ctx context.Context, event BookingEvent) (providerMessageID string, err error)
}

// LogSender is the development delivery channel. It writes the message
// to the log instead of an email or SMS gateway.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a log-backed sender
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification and fabricates a message ID
func (s *LogSender) Send(ctx context.Context, event BookingEvent) (string, error) {
	s.logger.WithFields(logrus.Fields{
		"notification_id": event.NotificationID,
		"channel":         event.Channel,
		"recipient":       event.Recipient,
		"action":          event.Action,
	}).Info("Delivering notification")

	return fmt.Sprintf("log-%s", event.NotificationID), nil
}
