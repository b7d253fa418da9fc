package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/models"
)

// PaymentRepository handles database operations for payment records
type PaymentRepository struct {
	db Queryer
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db Queryer) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create persists a payment record
func (r *PaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	query := `
		INSERT INTO payments (
			id, booking_id, user_id, provider, provider_payment_id,
			amount_cents, currency, status, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		payment.ID, payment.BookingID, payment.UserID, payment.Provider, payment.ProviderPaymentID,
		payment.AmountCents, payment.Currency, payment.Status, payment.Metadata,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(paymentID uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT id, booking_id, user_id, provider, provider_payment_id,
		       amount_cents, currency, status, metadata, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	payment := &models.Payment{}
	err := r.db.Get(payment, query, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// GetByBookingID retrieves all payments attached to a booking, newest first
func (r *PaymentRepository) GetByBookingID(bookingID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT id, booking_id, user_id, provider, provider_payment_id,
		       amount_cents, currency, status, metadata, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`

	payments := []models.Payment{}
	if err := r.db.Select(&payments, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get payments for booking: %w", err)
	}
	return payments, nil
}

// UpdateStatus writes a new payment status. Provider callback metadata,
// when present, replaces the stored payload; a nil metadata leaves it
// untouched.
func (r *PaymentRepository) UpdateStatus(paymentID uuid.UUID, status models.PaymentStatus, metadata models.JSONB) error {
	query := `
		UPDATE payments
		SET status = $2,
		    metadata = COALESCE($3, metadata),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, paymentID, status, metadata)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrPaymentNotFound
	}
	return nil
}
