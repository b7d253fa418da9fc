package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for handling JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface.
// Returns JSON as string for compatibility with connection poolers
// running in simple protocol mode.
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// TravelMode tags a line item with the kind of inventory it reserves
type TravelMode string

const (
	TravelModeHotel  TravelMode = "hotel"
	TravelModeFlight TravelMode = "flight"
	TravelModeCar    TravelMode = "car"
	TravelModeTrain  TravelMode = "train"
	TravelModeBus    TravelMode = "bus"
)

// IsValid reports whether the travel mode is a known value
func (m TravelMode) IsValid() bool {
	switch m {
	case TravelModeHotel, TravelModeFlight, TravelModeCar, TravelModeTrain, TravelModeBus:
		return true
	}
	return false
}

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "PENDING"
	BookingStatusConfirmed     BookingStatus = "CONFIRMED"
	BookingStatusPaymentFailed BookingStatus = "PAYMENT_FAILED"
	BookingStatusCancelled     BookingStatus = "CANCELLED"
	BookingStatusRefunded      BookingStatus = "REFUNDED"
)

// bookingStatusTransitions lists the permitted direct transitions.
// PAYMENT_FAILED -> CONFIRMED covers a successful payment retry.
// CANCELLED and REFUNDED are terminal.
var bookingStatusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:       {BookingStatusConfirmed, BookingStatusPaymentFailed, BookingStatusCancelled},
	BookingStatusConfirmed:     {BookingStatusCancelled, BookingStatusRefunded},
	BookingStatusPaymentFailed: {BookingStatusConfirmed, BookingStatusCancelled},
}

// IsValid reports whether the status is a known value
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPaymentFailed,
		BookingStatusCancelled, BookingStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusRefunded
}

// CanTransitionTo reports whether the state machine permits moving to
// next. Repeating the current status is always permitted so that a
// second identical update is an idempotent no-op rather than an error.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when the state
// machine does not permit moving to next
func (s BookingStatus) ValidateTransition(next BookingStatus) error {
	if !next.IsValid() {
		return NewValidationError("status", "unknown booking status: "+string(next))
	}
	if !s.CanTransitionTo(next) {
		return &InvalidTransitionError{ObjectType: "booking", From: string(s), To: string(next)}
	}
	return nil
}

// Booking represents a reservation spanning one or more travel
// inventory line items for one customer
type Booking struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	UserID           uuid.UUID     `json:"user_id" db:"user_id"`
	TotalAmountCents int64         `json:"total_amount_cents" db:"total_amount_cents"`
	Currency         string        `json:"currency" db:"currency"`
	Status           BookingStatus `json:"status" db:"status"`
	CustomerName     string        `json:"customer_name" db:"customer_name"`
	CustomerEmail    string        `json:"customer_email" db:"customer_email"`
	CustomerPhone    *string       `json:"customer_phone,omitempty" db:"customer_phone"`
	Metadata         JSONB         `json:"metadata,omitempty" db:"metadata"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`

	Items    []BookingItem `json:"items,omitempty" db:"-"`
	Payments []Payment     `json:"payments,omitempty" db:"-"`
}

// BookingItem is one reserved unit of travel inventory within a
// booking. Items are created with their parent booking and are
// immutable afterwards.
type BookingItem struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	BookingID       uuid.UUID  `json:"booking_id" db:"booking_id"`
	InventoryItemID *uuid.UUID `json:"inventory_item_id,omitempty" db:"inventory_item_id"`
	ProviderItemID  string     `json:"provider_item_id" db:"provider_item_id"`
	TravelMode      TravelMode `json:"travel_mode" db:"travel_mode"`
	Quantity        int        `json:"quantity" db:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents" db:"unit_price_cents"`
	StartDate       *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty" db:"end_date"`
	SeatInfo        JSONB      `json:"seat_info,omitempty" db:"seat_info"`
	Meta            JSONB      `json:"meta,omitempty" db:"meta"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// CustomerInfo is the contact snapshot stored on the booking
type CustomerInfo struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone,omitempty"`
}

// BookingItemRequest describes one line item of a booking to be created
type BookingItemRequest struct {
	InventoryItemID *uuid.UUID `json:"inventory_item_id,omitempty"`
	ProviderItemID  string     `json:"provider_item_id"`
	TravelMode      TravelMode `json:"travel_mode"`
	Quantity        int        `json:"quantity"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	SeatInfo        JSONB      `json:"seat_info,omitempty"`
	Meta            JSONB      `json:"meta,omitempty"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	UserID          uuid.UUID            `json:"-"`
	Items           []BookingItemRequest `json:"items"`
	Customer        CustomerInfo         `json:"customer_info"`
	PaymentIntentID *string              `json:"payment_intent_id,omitempty"`
	Metadata        JSONB                `json:"metadata,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if len(r.Items) == 0 {
		return NewValidationError("items", "at least one item is required")
	}
	if r.Customer.Name == "" {
		return NewValidationError("customer_info.name", "customer name is required")
	}
	if r.Customer.Email == "" {
		return NewValidationError("customer_info.email", "customer email is required")
	}
	for _, item := range r.Items {
		if item.ProviderItemID == "" {
			return NewValidationError("items", "provider_item_id is required")
		}
		if !item.TravelMode.IsValid() {
			return NewValidationError("items", "unknown travel mode: "+string(item.TravelMode))
		}
		if item.Quantity <= 0 {
			return NewValidationError("items", "quantity must be positive")
		}
		if item.UnitPriceCents <= 0 {
			return NewValidationError("items", "unit price must be positive")
		}
		if item.StartDate != nil && item.EndDate != nil && item.EndDate.Before(*item.StartDate) {
			return NewValidationError("items", "end date must not precede start date")
		}
	}
	return nil
}

// TotalAmountCents computes the booking total from the requested
// items. The stored total is fixed at creation time and never
// recomputed afterwards.
func (r *CreateBookingRequest) TotalAmountCents() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// UpdateBookingStatusRequest represents a direct status change request
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// BookingFilters narrows booking list queries
type BookingFilters struct {
	UserID   *uuid.UUID
	Status   *BookingStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
