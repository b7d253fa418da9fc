package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction tags the state-changing action an audit entry records
type AuditAction string

const (
	AuditActionBookingCreated       AuditAction = "BOOKING_CREATED"
	AuditActionBookingStatusUpdated AuditAction = "BOOKING_STATUS_UPDATED"
	AuditActionPaymentInitiated     AuditAction = "PAYMENT_INITIATED"
	AuditActionPaymentRefunded      AuditAction = "PAYMENT_REFUNDED"
	AuditActionInventoryUpdated     AuditAction = "INVENTORY_AVAILABILITY_UPDATED"
)

// Audit object types
const (
	AuditObjectBooking   = "booking"
	AuditObjectPayment   = "payment"
	AuditObjectInventory = "inventory_item"
)

// AuditLogEntry is an immutable record of a state-changing action.
// Entries are written in the same unit of work as the change they
// document and are never updated or deleted.
type AuditLogEntry struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     *uuid.UUID  `json:"user_id,omitempty" db:"user_id"`
	Action     AuditAction `json:"action" db:"action"`
	ObjectType string      `json:"object_type" db:"object_type"`
	ObjectID   uuid.UUID   `json:"object_id" db:"object_id"`
	Details    JSONB       `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
