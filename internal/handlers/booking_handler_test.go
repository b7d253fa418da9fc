package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/middleware"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/services"
)

func newTestRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := database.NewStore(sqlx.NewDb(mockDB, "sqlmock"))
	notifications := services.NewNotificationService(store, nil, logger)
	cfg := config.BookingConfig{DefaultCurrency: "USD", ListPageSize: 20}
	bookingService := services.NewBookingService(store, notifications, cfg, logger)
	paymentService := services.NewPaymentService(store, notifications, cfg, logger)

	bookingHandler := NewBookingHandler(bookingService, logger)
	paymentHandler := NewPaymentHandler(paymentService, logger)

	router := gin.New()
	// Stand-in for the JWT middleware
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: userID,
			Email:  "alice@example.com",
		})
		c.Next()
	})

	router.POST("/bookings", bookingHandler.CreateBooking)
	router.GET("/bookings/:booking_id", bookingHandler.GetBooking)
	router.PATCH("/bookings/:booking_id/status", bookingHandler.UpdateBookingStatus)
	router.POST("/bookings/:booking_id/cancel", bookingHandler.CancelBooking)
	router.POST("/payments", paymentHandler.ProcessPayment)
	router.POST("/payments/:payment_id/refund", paymentHandler.RefundPayment)

	return router, mock
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint_Success(t *testing.T) {
	userID := uuid.New()
	router, mock := newTestRouter(t, userID)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO booking_items").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()
	mock.ExpectQuery("INSERT INTO notifications").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	w := performJSON(router, "POST", "/bookings", gin.H{
		"items": []gin.H{
			{"provider_item_id": "HTL-1001", "travel_mode": "hotel", "quantity": 2, "unit_price_cents": 15000},
		},
		"customer_info": gin.H{"name": "Alice Traveler", "email": "alice@example.com"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(30000), booking.TotalAmountCents)
	assert.Equal(t, userID, booking.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingEndpoint_ValidationError(t *testing.T) {
	router, mock := newTestRouter(t, uuid.New())

	w := performJSON(router, "POST", "/bookings", gin.H{
		"items":         []gin.H{},
		"customer_info": gin.H{"name": "Alice Traveler", "email": "alice@example.com"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingEndpoint_NotFound(t *testing.T) {
	router, mock := newTestRouter(t, uuid.New())

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := performJSON(router, "GET", fmt.Sprintf("/bookings/%s", uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestGetBookingEndpoint_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t, uuid.New())

	w := performJSON(router, "GET", "/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookingStatusEndpoint_InvalidTransition(t *testing.T) {
	userID := uuid.New()
	router, mock := newTestRouter(t, userID)

	bookingID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "total_amount_cents", "currency", "status",
		"customer_name", "customer_email", "customer_phone", "metadata",
		"created_at", "updated_at",
	}).AddRow(bookingID, userID, int64(30000), "USD", "CANCELLED",
		"Alice Traveler", "alice@example.com", nil, nil, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").WillReturnRows(rows)
	mock.ExpectRollback()

	w := performJSON(router, "PATCH", fmt.Sprintf("/bookings/%s/status", bookingID), gin.H{
		"status": "CONFIRMED",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}

func TestRefundPaymentEndpoint_Conflict(t *testing.T) {
	userID := uuid.New()
	router, mock := newTestRouter(t, userID)

	paymentID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "provider", "provider_payment_id",
		"amount_cents", "currency", "status", "metadata", "created_at", "updated_at",
	}).AddRow(paymentID, uuid.New(), userID, "STRIPE", "pi_1",
		int64(30000), "USD", "PROCESSING", nil, now, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM payments").WillReturnRows(rows)
	mock.ExpectRollback()

	w := performJSON(router, "POST", fmt.Sprintf("/payments/%s/refund", paymentID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")
}
