package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyagehub/booking-backend/internal/models"
)

func TestBookingRepositoryCreate(t *testing.T) {
	store, mock := newTestStore(t)

	booking := &models.Booking{
		UserID:           uuid.New(),
		TotalAmountCents: 30000,
		Currency:         "USD",
		Status:           models.BookingStatusPending,
		CustomerName:     "Alice Traveler",
		CustomerEmail:    "alice@example.com",
	}
	items := []models.BookingItem{
		{
			ProviderItemID: "HTL-1001",
			TravelMode:     models.TravelModeHotel,
			Quantity:       2,
			UnitPriceCents: 15000,
		},
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery("INSERT INTO booking_items").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	err := store.Bookings.Create(booking, items)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	require.Len(t, booking.Items, 1)
	assert.Equal(t, booking.ID, booking.Items[0].BookingID)
	assert.NotEqual(t, uuid.Nil, booking.Items[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryGetByID_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Bookings.GetByID(uuid.New())
	assert.ErrorIs(t, err, models.ErrBookingNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryGetByID(t *testing.T) {
	store, mock := newTestStore(t)

	bookingID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "total_amount_cents", "currency", "status",
		"customer_name", "customer_email", "customer_phone", "metadata",
		"created_at", "updated_at",
	}).AddRow(bookingID, userID, int64(30000), "USD", "PENDING",
		"Alice Traveler", "alice@example.com", nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(bookingID).
		WillReturnRows(rows)

	booking, err := store.Bookings.GetByID(bookingID)
	require.NoError(t, err)
	assert.Equal(t, bookingID, booking.ID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(30000), booking.TotalAmountCents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateStatus(t *testing.T) {
	store, mock := newTestStore(t)
	bookingID := uuid.New()

	t.Run("updates existing booking", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings").
			WithArgs(bookingID, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Bookings.UpdateStatus(bookingID, models.BookingStatusConfirmed)
		assert.NoError(t, err)
	})

	t.Run("missing booking", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings").
			WithArgs(bookingID, models.BookingStatusConfirmed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Bookings.UpdateStatus(bookingID, models.BookingStatusConfirmed)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryList(t *testing.T) {
	store, mock := newTestStore(t)

	userID := uuid.New()
	status := models.BookingStatusPending
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "total_amount_cents", "currency", "status",
		"customer_name", "customer_email", "customer_phone", "metadata",
		"created_at", "updated_at",
	}).AddRow(uuid.New(), userID, int64(5000), "USD", "PENDING",
		"Alice Traveler", "alice@example.com", nil, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(userID, status, 10, 0).
		WillReturnRows(rows)

	bookings, err := store.Bookings.List(models.BookingFilters{
		UserID: &userID,
		Status: &status,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, userID, bookings[0].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCount(t *testing.T) {
	store, mock := newTestStore(t)

	userID := uuid.New()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := store.Bookings.Count(models.BookingFilters{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestBookingRepositoryGetItems(t *testing.T) {
	store, mock := newTestStore(t)

	bookingID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "booking_id", "inventory_item_id", "provider_item_id", "travel_mode",
		"quantity", "unit_price_cents", "start_date", "end_date", "seat_info", "meta",
		"created_at",
	}).
		AddRow(uuid.New(), bookingID, nil, "HTL-1001", "hotel", 2, int64(15000), nil, nil, nil, nil, now).
		AddRow(uuid.New(), bookingID, nil, "FLT-2002", "flight", 1, int64(45000), nil, nil, nil, nil, now)

	mock.ExpectQuery("SELECT (.+) FROM booking_items").
		WithArgs(bookingID).
		WillReturnRows(rows)

	items, err := store.Bookings.GetItems(bookingID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "HTL-1001", items[0].ProviderItemID)
	assert.Equal(t, models.TravelModeFlight, items[1].TravelMode)
}
