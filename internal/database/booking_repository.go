package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/voyagehub/booking-backend/internal/models"
)

// BookingRepository handles database operations for bookings and their
// line items
type BookingRepository struct {
	db Queryer
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db Queryer) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create persists a booking together with its line items. Items are
// only ever written here; they are immutable once the parent booking
// exists.
func (r *BookingRepository) Create(booking *models.Booking, items []models.BookingItem) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	query := `
		INSERT INTO bookings (
			id, user_id, total_amount_cents, currency, status,
			customer_name, customer_email, customer_phone, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		booking.ID, booking.UserID, booking.TotalAmountCents, booking.Currency, booking.Status,
		booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone, booking.Metadata,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	itemQuery := `
		INSERT INTO booking_items (
			id, booking_id, inventory_item_id, provider_item_id, travel_mode,
			quantity, unit_price_cents, start_date, end_date, seat_info, meta
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at
	`

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].BookingID = booking.ID

		err := r.db.QueryRow(
			itemQuery,
			items[i].ID, items[i].BookingID, items[i].InventoryItemID, items[i].ProviderItemID, items[i].TravelMode,
			items[i].Quantity, items[i].UnitPriceCents, items[i].StartDate, items[i].EndDate, items[i].SeatInfo, items[i].Meta,
		).Scan(&items[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create booking item %s: %w", items[i].ProviderItemID, err)
		}
	}

	booking.Items = items
	return nil
}

// GetByID retrieves a booking by ID without related records
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, user_id, total_amount_cents, currency, status,
		       customer_name, customer_email, customer_phone, metadata,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking := &models.Booking{}
	err := r.db.Get(booking, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// GetItems retrieves the line items of a booking in insertion order
func (r *BookingRepository) GetItems(bookingID uuid.UUID) ([]models.BookingItem, error) {
	query := `
		SELECT id, booking_id, inventory_item_id, provider_item_id, travel_mode,
		       quantity, unit_price_cents, start_date, end_date, seat_info, meta,
		       created_at
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY created_at, id
	`

	items := []models.BookingItem{}
	if err := r.db.Select(&items, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get booking items: %w", err)
	}
	return items, nil
}

// List retrieves bookings matching the filters, newest first
func (r *BookingRepository) List(filters models.BookingFilters) ([]models.Booking, error) {
	where, args := buildBookingFilters(filters)

	query := fmt.Sprintf(`
		SELECT id, user_id, total_amount_cents, currency, status,
		       customer_name, customer_email, customer_phone, metadata,
		       created_at, updated_at
		FROM bookings
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, filters.Offset)

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Count counts bookings matching the filters
func (r *BookingRepository) Count(filters models.BookingFilters) (int, error) {
	where, args := buildBookingFilters(filters)

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM bookings "+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return total, nil
}

// UpdateStatus writes a new booking status
func (r *BookingRepository) UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

func buildBookingFilters(filters models.BookingFilters) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filters.Status != nil {
		args = append(args, *filters.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
