package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationChannel identifies the delivery channel
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "EMAIL"
	NotificationChannelSMS   NotificationChannel = "SMS"
)

// NotificationStatus tracks a notification through dispatch
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusSent      NotificationStatus = "SENT"
	NotificationStatusDelivered NotificationStatus = "DELIVERED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

// Notification is one queued confirmation message. Dispatch is
// best-effort relative to the booking transaction; a failed
// notification never fails the operation that triggered it.
type Notification struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	UserID            uuid.UUID           `json:"user_id" db:"user_id"`
	BookingID         *uuid.UUID          `json:"booking_id,omitempty" db:"booking_id"`
	Channel           NotificationChannel `json:"channel" db:"channel"`
	Recipient         string              `json:"recipient" db:"recipient"`
	Message           string              `json:"message" db:"message"`
	Status            NotificationStatus  `json:"status" db:"status"`
	ProviderMessageID *string             `json:"provider_message_id,omitempty" db:"provider_message_id"`
	Metadata          JSONB               `json:"metadata,omitempty" db:"metadata"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}
