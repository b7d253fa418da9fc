package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the lifecycle engine and its stores
var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInventoryUnavailable  = errors.New("inventory item is not available")
	ErrNotificationNotFound  = errors.New("notification not found")
)

// ValidationError indicates a malformed request (empty item list,
// non-positive quantity/price, bad date range, missing contact info)
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError indicates a status change the state machine
// does not permit
type InvalidTransitionError struct {
	ObjectType string
	From       string
	To         string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s status transition: %s -> %s", e.ObjectType, e.From, e.To)
}

// IsNotFound reports whether err is one of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrInventoryItemNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
