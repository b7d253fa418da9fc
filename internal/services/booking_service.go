package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
)

// BookingService drives the booking lifecycle. Every state change runs
// in one unit of work together with its audit entry; notifications go
// out after the transaction commits.
type BookingService struct {
	store         *database.Store
	notifications *NotificationService
	config        config.BookingConfig
	logger        *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	store *database.Store,
	notifications *NotificationService,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		store:         store,
		notifications: notifications,
		config:        cfg,
		logger:        logger,
	}
}

// BookingListResult pairs one page of bookings with the full match count
type BookingListResult struct {
	Bookings []models.Booking `json:"bookings"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// CreateBooking creates a booking in PENDING with its line items, an
// optional INIT payment record, and the audit entry, all in one unit
// of work. Any catalog-backed item must be available or the whole
// creation is rolled back.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:               uuid.New(),
		UserID:           req.UserID,
		TotalAmountCents: req.TotalAmountCents(),
		Currency:         s.config.DefaultCurrency,
		Status:           models.BookingStatusPending,
		CustomerName:     req.Customer.Name,
		CustomerEmail:    req.Customer.Email,
		CustomerPhone:    req.Customer.Phone,
		Metadata:         req.Metadata,
	}

	items := make([]models.BookingItem, len(req.Items))
	for i, itemReq := range req.Items {
		items[i] = models.BookingItem{
			InventoryItemID: itemReq.InventoryItemID,
			ProviderItemID:  itemReq.ProviderItemID,
			TravelMode:      itemReq.TravelMode,
			Quantity:        itemReq.Quantity,
			UnitPriceCents:  itemReq.UnitPriceCents,
			StartDate:       itemReq.StartDate,
			EndDate:         itemReq.EndDate,
			SeatInfo:        itemReq.SeatInfo,
			Meta:            itemReq.Meta,
		}
	}

	err := s.store.WithinTx(func(tx *database.Store) error {
		for i := range items {
			if items[i].InventoryItemID == nil {
				continue
			}
			inventoryItem, err := tx.Inventory.GetByID(*items[i].InventoryItemID)
			if errors.Is(err, models.ErrInventoryItemNotFound) {
				// A vanished catalog row aborts creation the same way
				// an unavailable one does
				return models.ErrInventoryUnavailable
			}
			if err != nil {
				return err
			}
			if !inventoryItem.IsAvailable {
				return models.ErrInventoryUnavailable
			}
		}

		if err := tx.Bookings.Create(booking, items); err != nil {
			return err
		}

		if req.PaymentIntentID != nil && *req.PaymentIntentID != "" {
			payment := &models.Payment{
				BookingID:         booking.ID,
				UserID:            booking.UserID,
				Provider:          models.ProviderStripe,
				ProviderPaymentID: *req.PaymentIntentID,
				AmountCents:       booking.TotalAmountCents,
				Currency:          booking.Currency,
				Status:            models.PaymentStatusInit,
			}
			if err := tx.Payments.Create(payment); err != nil {
				return err
			}
			booking.Payments = []models.Payment{*payment}
		}

		return tx.Audit.Append(&models.AuditLogEntry{
			UserID:     &booking.UserID,
			Action:     models.AuditActionBookingCreated,
			ObjectType: models.AuditObjectBooking,
			ObjectID:   booking.ID,
			Details: models.JSONB{
				"total_amount_cents": booking.TotalAmountCents,
				"item_count":         len(items),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":         booking.ID,
		"user_id":            booking.UserID,
		"total_amount_cents": booking.TotalAmountCents,
		"item_count":         len(items),
	}).Info("Booking created")

	s.notifications.NotifyBookingEvent(ctx, booking, models.AuditActionBookingCreated)

	return booking, nil
}

// GetBooking retrieves a booking with its items and payments
func (s *BookingService) GetBooking(bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.store.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.Bookings.GetItems(bookingID)
	if err != nil {
		return nil, err
	}
	booking.Items = items

	payments, err := s.store.Payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	booking.Payments = payments

	return booking, nil
}

// ListBookings retrieves a page of bookings matching the filters
func (s *BookingService) ListBookings(filters models.BookingFilters) (*BookingListResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = s.config.ListPageSize
	}

	bookings, err := s.store.Bookings.List(filters)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Bookings.Count(filters)
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		items, err := s.store.Bookings.GetItems(bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Items = items
	}

	return &BookingListResult{
		Bookings: bookings,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

// UpdateBookingStatus moves a booking to a new status when the state
// machine permits it. Repeating the current status is an idempotent
// no-op. The change and its audit entry commit together.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus, actorID *uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking
	changed := false

	err := s.store.WithinTx(func(tx *database.Store) error {
		var err error
		booking, err = tx.Bookings.GetByID(bookingID)
		if err != nil {
			return err
		}

		if err := booking.Status.ValidateTransition(status); err != nil {
			return err
		}

		// No state change, nothing to write
		if booking.Status == status {
			return nil
		}
		changed = true

		previous := booking.Status
		if err := tx.Bookings.UpdateStatus(bookingID, status); err != nil {
			return err
		}
		booking.Status = status

		return tx.Audit.Append(&models.AuditLogEntry{
			UserID:     actorID,
			Action:     models.AuditActionBookingStatusUpdated,
			ObjectType: models.AuditObjectBooking,
			ObjectID:   bookingID,
			Details: models.JSONB{
				"from": string(previous),
				"to":   string(status),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"status":     status,
		}).Info("Booking status updated")

		s.notifications.NotifyBookingEvent(ctx, booking, models.AuditActionBookingStatusUpdated)
	}

	return booking, nil
}

// CancelBooking cancels a booking. A second cancel of the same booking
// succeeds without writing anything.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID) (*models.Booking, error) {
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled, actorID)
}

// GetBookingAuditTrail retrieves the audit entries of a booking,
// oldest first
func (s *BookingService) GetBookingAuditTrail(bookingID uuid.UUID) ([]models.AuditLogEntry, error) {
	if _, err := s.store.Bookings.GetByID(bookingID); err != nil {
		return nil, err
	}
	entries, err := s.store.Audit.GetByObject(models.AuditObjectBooking, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking audit trail: %w", err)
	}
	return entries, nil
}
