package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
)

// PaymentService drives payment records through their lifecycle and
// cascades terminal payment outcomes onto the owning booking. A
// payment outcome and its booking update always commit together.
type PaymentService struct {
	store         *database.Store
	notifications *NotificationService
	config        config.BookingConfig
	logger        *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	store *database.Store,
	notifications *NotificationService,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		store:         store,
		notifications: notifications,
		config:        cfg,
		logger:        logger,
	}
}

// ProcessPayment starts collecting a payment for a booking. The
// payment record is created in PROCESSING; the provider callback
// later settles it through UpdatePaymentStatus.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.ProcessPaymentRequest) (*models.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID:         req.BookingID,
		UserID:            req.UserID,
		Provider:          models.ProviderStripe,
		ProviderPaymentID: req.ProviderPaymentID,
		AmountCents:       req.AmountCents,
		Currency:          req.Currency,
		Status:            models.PaymentStatusProcessing,
	}

	err := s.store.WithinTx(func(tx *database.Store) error {
		booking, err := tx.Bookings.GetByID(req.BookingID)
		if err != nil {
			return err
		}

		if booking.Status.IsTerminal() {
			return &models.InvalidTransitionError{
				ObjectType: "booking",
				From:       string(booking.Status),
				To:         string(models.BookingStatusConfirmed),
			}
		}

		if req.AmountCents > booking.TotalAmountCents {
			return models.NewValidationError("amount_cents", "amount exceeds booking total")
		}
		if payment.Currency == "" {
			payment.Currency = booking.Currency
		}

		if err := tx.Payments.Create(payment); err != nil {
			return err
		}

		return tx.Audit.Append(&models.AuditLogEntry{
			UserID:     &req.UserID,
			Action:     models.AuditActionPaymentInitiated,
			ObjectType: models.AuditObjectPayment,
			ObjectID:   payment.ID,
			Details: models.JSONB{
				"booking_id":   req.BookingID.String(),
				"amount_cents": req.AmountCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":   payment.ID,
		"booking_id":   payment.BookingID,
		"amount_cents": payment.AmountCents,
	}).Info("Payment processing started")

	return payment, nil
}

// UpdatePaymentStatus applies a provider callback to a payment. A
// SUCCEEDED payment confirms its booking and a FAILED one marks it
// PAYMENT_FAILED; any other status leaves the booking untouched.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, req *models.UpdatePaymentStatusRequest) (*models.Payment, error) {
	var payment *models.Payment
	var booking *models.Booking
	bookingChanged := false

	err := s.store.WithinTx(func(tx *database.Store) error {
		var err error
		payment, err = tx.Payments.GetByID(paymentID)
		if err != nil {
			return err
		}

		if err := payment.Status.ValidateTransition(req.Status); err != nil {
			return err
		}

		if payment.Status == req.Status {
			return nil
		}

		if err := tx.Payments.UpdateStatus(paymentID, req.Status, req.Metadata); err != nil {
			return err
		}
		payment.Status = req.Status
		if req.Metadata != nil {
			payment.Metadata = req.Metadata
		}

		var bookingStatus models.BookingStatus
		switch req.Status {
		case models.PaymentStatusSucceeded:
			bookingStatus = models.BookingStatusConfirmed
		case models.PaymentStatusFailed:
			bookingStatus = models.BookingStatusPaymentFailed
		default:
			return nil
		}

		booking, err = tx.Bookings.GetByID(payment.BookingID)
		if err != nil {
			return err
		}
		if err := booking.Status.ValidateTransition(bookingStatus); err != nil {
			return err
		}
		if booking.Status != bookingStatus {
			if err := tx.Bookings.UpdateStatus(booking.ID, bookingStatus); err != nil {
				return err
			}
			previous := booking.Status
			booking.Status = bookingStatus
			bookingChanged = true

			if err := tx.Audit.Append(&models.AuditLogEntry{
				UserID:     &payment.UserID,
				Action:     models.AuditActionBookingStatusUpdated,
				ObjectType: models.AuditObjectBooking,
				ObjectID:   booking.ID,
				Details: models.JSONB{
					"from":       string(previous),
					"to":         string(bookingStatus),
					"payment_id": payment.ID.String(),
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"status":     payment.Status,
	}).Info("Payment status updated")

	if bookingChanged {
		s.notifications.NotifyBookingEvent(ctx, booking, models.AuditActionBookingStatusUpdated)
	}

	return payment, nil
}

// RefundPayment refunds a succeeded payment and moves its booking to
// REFUNDED, with the audit entry, in one unit of work
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID, actorID *uuid.UUID) (*models.Payment, error) {
	var payment *models.Payment
	var booking *models.Booking
	changed := false

	err := s.store.WithinTx(func(tx *database.Store) error {
		var err error
		payment, err = tx.Payments.GetByID(paymentID)
		if err != nil {
			return err
		}

		if err := payment.Status.ValidateTransition(models.PaymentStatusRefunded); err != nil {
			return err
		}

		booking, err = tx.Bookings.GetByID(payment.BookingID)
		if err != nil {
			return err
		}

		// Second refund of the same payment is a no-op
		if payment.Status == models.PaymentStatusRefunded {
			return nil
		}
		changed = true

		if err := booking.Status.ValidateTransition(models.BookingStatusRefunded); err != nil {
			return err
		}

		if err := tx.Payments.UpdateStatus(paymentID, models.PaymentStatusRefunded, nil); err != nil {
			return err
		}
		payment.Status = models.PaymentStatusRefunded

		if booking.Status != models.BookingStatusRefunded {
			if err := tx.Bookings.UpdateStatus(booking.ID, models.BookingStatusRefunded); err != nil {
				return err
			}
			booking.Status = models.BookingStatusRefunded
		}

		return tx.Audit.Append(&models.AuditLogEntry{
			UserID:     actorID,
			Action:     models.AuditActionPaymentRefunded,
			ObjectType: models.AuditObjectPayment,
			ObjectID:   payment.ID,
			Details: models.JSONB{
				"booking_id":   payment.BookingID.String(),
				"amount_cents": payment.AmountCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.WithFields(logrus.Fields{
			"payment_id":   paymentID,
			"booking_id":   payment.BookingID,
			"amount_cents": payment.AmountCents,
		}).Info("Payment refunded")

		s.notifications.NotifyBookingEvent(ctx, booking, models.AuditActionPaymentRefunded)
	}

	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(paymentID uuid.UUID) (*models.Payment, error) {
	return s.store.Payments.GetByID(paymentID)
}

// GetPaymentsByBookingID retrieves all payments for a booking, newest
// first
func (s *PaymentService) GetPaymentsByBookingID(bookingID uuid.UUID) ([]models.Payment, error) {
	if _, err := s.store.Bookings.GetByID(bookingID); err != nil {
		return nil, err
	}
	return s.store.Payments.GetByBookingID(bookingID)
}
