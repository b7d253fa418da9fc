package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
)

func newTestPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := database.NewStore(sqlx.NewDb(mockDB, "sqlmock"))
	notifications := NewNotificationService(store, nil, logger)
	cfg := config.BookingConfig{DefaultCurrency: "USD", ListPageSize: 20}

	return NewPaymentService(store, notifications, cfg, logger), mock
}

func paymentRows(paymentID, bookingID, userID uuid.UUID, status models.PaymentStatus, amountCents int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "provider", "provider_payment_id",
		"amount_cents", "currency", "status", "metadata", "created_at", "updated_at",
	}).AddRow(paymentID, bookingID, userID, "STRIPE", "pi_123",
		amountCents, "USD", string(status), nil, now, now)
}

func TestProcessPayment_Success(t *testing.T) {
	service, mock := newTestPaymentService(t)

	bookingID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(bookingRows(bookingID, userID, models.BookingStatusPending, 30000))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	payment, err := service.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		BookingID:         bookingID,
		UserID:            userID,
		ProviderPaymentID: "pi_123",
		AmountCents:       30000,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusProcessing, payment.Status)
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, int64(30000), payment.AmountCents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessPayment_AmountExceedsTotal(t *testing.T) {
	service, mock := newTestPaymentService(t)

	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(bookingRows(bookingID, userID, models.BookingStatusPending, 30000))
	mock.ExpectRollback()

	_, err := service.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		BookingID:         bookingID,
		UserID:            userID,
		ProviderPaymentID: "pi_123",
		AmountCents:       50000,
	})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount_cents", validationErr.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessPayment_BookingNotFound(t *testing.T) {
	service, mock := newTestPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := service.ProcessPayment(context.Background(), &models.ProcessPaymentRequest{
		BookingID:         uuid.New(),
		UserID:            uuid.New(),
		ProviderPaymentID: "pi_123",
		AmountCents:       1000,
	})
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestUpdatePaymentStatus_SucceededConfirmsBooking(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, bookingID, userID, models.PaymentStatusProcessing, 30000))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, models.PaymentStatusSucceeded, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(bookingRows(bookingID, userID, models.BookingStatusPending, 30000))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, models.BookingStatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	payment, err := service.UpdatePaymentStatus(context.Background(), paymentID, &models.UpdatePaymentStatusRequest{
		Status: models.PaymentStatusSucceeded,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_FailedMarksBookingPaymentFailed(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, bookingID, userID, models.PaymentStatusProcessing, 30000))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, models.PaymentStatusFailed, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(bookingRows(bookingID, userID, models.BookingStatusPending, 30000))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, models.BookingStatusPaymentFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	payment, err := service.UpdatePaymentStatus(context.Background(), paymentID, &models.UpdatePaymentStatusRequest{
		Status: models.PaymentStatusFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_ProcessingLeavesBookingUntouched(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, bookingID, userID, models.PaymentStatusInit, 30000))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, models.PaymentStatusProcessing, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := service.UpdatePaymentStatus(context.Background(), paymentID, &models.UpdatePaymentStatusRequest{
		Status: models.PaymentStatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProcessing, payment.Status)

	// No booking read or write happened
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_PersistsCallbackMetadata(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()
	metadata := models.JSONB{"provider_event": "charge.pending"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, uuid.New(), uuid.New(), models.PaymentStatusInit, 30000))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, models.PaymentStatusProcessing, metadata).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := service.UpdatePaymentStatus(context.Background(), paymentID, &models.UpdatePaymentStatusRequest{
		Status:   models.PaymentStatusProcessing,
		Metadata: metadata,
	})
	require.NoError(t, err)
	assert.Equal(t, metadata, payment.Metadata)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatus_InvalidTransition(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, uuid.New(), uuid.New(), models.PaymentStatusSucceeded, 30000))
	mock.ExpectRollback()

	_, err := service.UpdatePaymentStatus(context.Background(), paymentID, &models.UpdatePaymentStatusRequest{
		Status: models.PaymentStatusFailed,
	})

	var transitionErr *models.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "payment", transitionErr.ObjectType)
}

func TestRefundPayment_Success(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, bookingID, userID, models.PaymentStatusSucceeded, 30000))
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(bookingRows(bookingID, userID, models.BookingStatusConfirmed, 30000))
	mock.ExpectExec("UPDATE payments").
		WithArgs(paymentID, models.PaymentStatusRefunded, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings").
		WithArgs(bookingID, models.BookingStatusRefunded).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	payment, err := service.RefundPayment(context.Background(), paymentID, &userID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, payment.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundPayment_RequiresSucceededPayment(t *testing.T) {
	service, mock := newTestPaymentService(t)

	paymentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(paymentID).
		WillReturnRows(paymentRows(paymentID, uuid.New(), uuid.New(), models.PaymentStatusProcessing, 30000))
	mock.ExpectRollback()

	userID := uuid.New()
	_, err := service.RefundPayment(context.Background(), paymentID, &userID)

	var transitionErr *models.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, string(models.PaymentStatusProcessing), transitionErr.From)
	assert.Equal(t, string(models.PaymentStatusRefunded), transitionErr.To)

	assert.NoError(t, mock.ExpectationsWereMet())
}
