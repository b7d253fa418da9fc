package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/notify"
)

// EventPublisher publishes booking events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, event notify.BookingEvent) error
}

// NotificationService records and dispatches customer notifications.
// Dispatch is strictly best-effort: every method here logs failures
// and returns without error to its lifecycle callers, so a broker or
// database hiccup never rolls back a committed booking or payment.
type NotificationService struct {
	store     *database.Store
	publisher EventPublisher
	logger    *logrus.Logger
}

// NewNotificationService creates a new notification service. publisher
// may be nil when the broker is disabled; notifications are then
// recorded but stay PENDING.
func NewNotificationService(store *database.Store, publisher EventPublisher, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyBookingEvent records notifications for a booking lifecycle
// action and hands them to the broker. Email always goes out; SMS is
// added when the customer left a phone number. Called after the
// triggering transaction has committed.
func (s *NotificationService) NotifyBookingEvent(ctx context.Context, booking *models.Booking, action models.AuditAction) {
	message := notificationMessage(booking, action)

	s.dispatch(ctx, booking, action, models.NotificationChannelEmail, booking.CustomerEmail, message)
	if booking.CustomerPhone != nil && *booking.CustomerPhone != "" {
		s.dispatch(ctx, booking, action, models.NotificationChannelSMS, *booking.CustomerPhone, message)
	}
}

func (s *NotificationService) dispatch(
	ctx context.Context,
	booking *models.Booking,
	action models.AuditAction,
	channel models.NotificationChannel,
	recipient string,
	message string,
) {
	notification := &models.Notification{
		UserID:    booking.UserID,
		BookingID: &booking.ID,
		Channel:   channel,
		Recipient: recipient,
		Message:   message,
		Status:    models.NotificationStatusPending,
		Metadata: models.JSONB{
			"action":         string(action),
			"booking_status": string(booking.Status),
		},
	}

	if err := s.store.Notifications.Create(notification); err != nil {
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"action":     action,
			"error":      err.Error(),
		}).Warn("Failed to record notification")
		return
	}

	if s.publisher == nil {
		return
	}

	event := notify.BookingEvent{
		NotificationID: notification.ID,
		BookingID:      notification.BookingID,
		UserID:         notification.UserID,
		Action:         string(action),
		Channel:        string(notification.Channel),
		Recipient:      notification.Recipient,
		Message:        notification.Message,
		OccurredAt:     time.Now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"booking_id":      booking.ID,
			"error":           err.Error(),
		}).Warn("Failed to publish booking event")
		return
	}

	if err := s.store.Notifications.UpdateStatus(notification.ID, models.NotificationStatusSent, nil); err != nil {
		s.logger.WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"error":           err.Error(),
		}).Warn("Failed to mark notification as sent")
	}
}

// MarkDelivered records a delivery confirmation from the worker
func (s *NotificationService) MarkDelivered(notificationID uuid.UUID, providerMessageID *string) error {
	return s.store.Notifications.UpdateStatus(notificationID, models.NotificationStatusDelivered, providerMessageID)
}

// MarkFailed records a delivery failure from the worker
func (s *NotificationService) MarkFailed(notificationID uuid.UUID) error {
	return s.store.Notifications.UpdateStatus(notificationID, models.NotificationStatusFailed, nil)
}

// GetByBookingID lists the notifications recorded for a booking
func (s *NotificationService) GetByBookingID(bookingID uuid.UUID) ([]models.Notification, error) {
	return s.store.Notifications.GetByBookingID(bookingID)
}

func notificationMessage(booking *models.Booking, action models.AuditAction) string {
	switch action {
	case models.AuditActionBookingCreated:
		return fmt.Sprintf("Hi %s, we received your booking %s. We will confirm it once payment completes.",
			booking.CustomerName, booking.ID)
	case models.AuditActionPaymentRefunded:
		return fmt.Sprintf("Hi %s, your booking %s has been refunded.", booking.CustomerName, booking.ID)
	}

	switch booking.Status {
	case models.BookingStatusConfirmed:
		return fmt.Sprintf("Hi %s, your booking %s is confirmed. Safe travels!", booking.CustomerName, booking.ID)
	case models.BookingStatusPaymentFailed:
		return fmt.Sprintf("Hi %s, payment for booking %s failed. Please retry with another payment method.",
			booking.CustomerName, booking.ID)
	case models.BookingStatusCancelled:
		return fmt.Sprintf("Hi %s, your booking %s has been cancelled.", booking.CustomerName, booking.ID)
	case models.BookingStatusRefunded:
		return fmt.Sprintf("Hi %s, your booking %s has been refunded.", booking.CustomerName, booking.ID)
	}
	return fmt.Sprintf("Hi %s, booking %s is now %s.", booking.CustomerName, booking.ID, booking.Status)
}
