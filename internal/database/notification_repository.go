package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/models"
)

// NotificationRepository handles database operations for notification records
type NotificationRepository struct {
	db Queryer
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db Queryer) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification record
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications (
			id, user_id, booking_id, channel, recipient, message,
			status, provider_message_id, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		notification.ID, notification.UserID, notification.BookingID, notification.Channel,
		notification.Recipient, notification.Message, notification.Status,
		notification.ProviderMessageID, notification.Metadata,
	).Scan(&notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(notificationID uuid.UUID) (*models.Notification, error) {
	query := `
		SELECT id, user_id, booking_id, channel, recipient, message,
		       status, provider_message_id, metadata, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`

	notification := &models.Notification{}
	err := r.db.Get(notification, query, notificationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return notification, nil
}

// GetByBookingID retrieves notifications attached to a booking, newest first
func (r *NotificationRepository) GetByBookingID(bookingID uuid.UUID) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, booking_id, channel, recipient, message,
		       status, provider_message_id, metadata, created_at, updated_at
		FROM notifications
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`

	notifications := []models.Notification{}
	if err := r.db.Select(&notifications, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get notifications for booking: %w", err)
	}
	return notifications, nil
}

// UpdateStatus writes a new notification status, optionally recording
// the provider message ID echoed back by the delivery channel
func (r *NotificationRepository) UpdateStatus(notificationID uuid.UUID, status models.NotificationStatus, providerMessageID *string) error {
	query := `
		UPDATE notifications
		SET status = $2,
		    provider_message_id = COALESCE($3, provider_message_id),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, notificationID, status, providerMessageID)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}
