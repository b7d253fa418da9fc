package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentProvider identifies the external payment processor
type PaymentProvider string

// ProviderStripe is the only payment processor the platform settles
// through.
const ProviderStripe PaymentProvider = "STRIPE"

// PaymentStatus represents the status of a payment attempt
type PaymentStatus string

const (
	PaymentStatusInit       PaymentStatus = "INIT"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

// paymentStatusTransitions lists the permitted direct transitions.
// SUCCEEDED -> REFUNDED is the only backward-looking transition;
// FAILED and REFUNDED are terminal.
var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusInit:       {PaymentStatusProcessing},
	PaymentStatusProcessing: {PaymentStatusSucceeded, PaymentStatusFailed},
	PaymentStatusSucceeded:  {PaymentStatusRefunded},
}

// IsValid reports whether the status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusInit, PaymentStatusProcessing, PaymentStatusSucceeded,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// CanTransitionTo reports whether the state machine permits moving to
// next. Repeating the current status is permitted as an idempotent
// no-op.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range paymentStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when the state
// machine does not permit moving to next
func (s PaymentStatus) ValidateTransition(next PaymentStatus) error {
	if !next.IsValid() {
		return NewValidationError("status", "unknown payment status: "+string(next))
	}
	if !s.CanTransitionTo(next) {
		return &InvalidTransitionError{ObjectType: "payment", From: string(s), To: string(next)}
	}
	return nil
}

// Payment records one attempt to collect funds against a booking's
// total. A booking may accumulate several payment rows after failed
// retries; the most recent one is authoritative.
type Payment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	BookingID         uuid.UUID       `json:"booking_id" db:"booking_id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	Provider          PaymentProvider `json:"provider" db:"provider"`
	ProviderPaymentID string          `json:"provider_payment_id" db:"provider_payment_id"`
	AmountCents       int64           `json:"amount_cents" db:"amount_cents"`
	Currency          string          `json:"currency" db:"currency"`
	Status            PaymentStatus   `json:"status" db:"status"`
	Metadata          JSONB           `json:"metadata,omitempty" db:"metadata"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// ProcessPaymentRequest represents the request to start collecting a
// payment for a booking
type ProcessPaymentRequest struct {
	BookingID         uuid.UUID `json:"booking_id"`
	UserID            uuid.UUID `json:"-"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency,omitempty"`
}

// Validate validates the process payment request
func (r *ProcessPaymentRequest) Validate() error {
	if r.BookingID == uuid.Nil {
		return NewValidationError("booking_id", "booking id is required")
	}
	if r.ProviderPaymentID == "" {
		return NewValidationError("provider_payment_id", "provider payment id is required")
	}
	if r.AmountCents <= 0 {
		return NewValidationError("amount_cents", "amount must be positive")
	}
	return nil
}

// UpdatePaymentStatusRequest represents a payment status callback
type UpdatePaymentStatusRequest struct {
	Status   PaymentStatus `json:"status" binding:"required"`
	Metadata JSONB         `json:"metadata,omitempty"`
}
