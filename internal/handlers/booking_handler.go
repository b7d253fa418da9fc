package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/middleware"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/services"
)

// BookingHandler handles booking lifecycle endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking creates a new booking
// @Summary Create booking
// @Description Creates a booking in PENDING with its line items; optionally opens an INIT payment record
// @Tags Bookings
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 409 {object} map[string]interface{} "Inventory unavailable"
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	req.UserID = userCtx.UserID

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking retrieves a booking with items and payments
// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/{booking_id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	booking, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListBookings lists the caller's bookings
// @Summary List bookings
// @Description Lists the caller's bookings, newest first, with optional status and date filters
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Booking status filter"
// @Param date_from query string false "RFC3339 lower bound on creation time"
// @Param date_to query string false "RFC3339 upper bound on creation time"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} services.BookingListResult
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filters, err := parseBookingFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Non-admin callers only ever see their own bookings
	if !userCtx.HasRole("admin") {
		filters.UserID = &userCtx.UserID
	}

	result, err := h.bookingService.ListBookings(filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateBookingStatus moves a booking to a new status
// @Summary Update booking status
// @Tags Bookings
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param booking_id path string true "Booking ID"
// @Param request body models.UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Transition not permitted"
// @Router /bookings/{booking_id}/status [patch]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), bookingID, req.Status, &userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking cancels a booking
// @Summary Cancel booking
// @Description Cancels a booking; cancelling an already cancelled booking succeeds without changes
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Transition not permitted"
// @Router /bookings/{booking_id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID, &userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingAuditTrail retrieves the audit history of a booking
// @Summary Get booking audit trail
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param booking_id path string true "Booking ID"
// @Success 200 {array} models.AuditLogEntry
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/{booking_id}/audit [get]
func (h *BookingHandler) GetBookingAuditTrail(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	entries, err := h.bookingService.GetBookingAuditTrail(bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func parseBookingFilters(c *gin.Context) (models.BookingFilters, error) {
	var filters models.BookingFilters

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.BookingStatus(statusStr)
		if !status.IsValid() {
			return filters, models.NewValidationError("status", "unknown booking status: "+statusStr)
		}
		filters.Status = &status
	}

	if fromStr := c.Query("date_from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return filters, models.NewValidationError("date_from", "must be RFC3339")
		}
		filters.DateFrom = &from
	}

	if toStr := c.Query("date_to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return filters, models.NewValidationError("date_to", "must be RFC3339")
		}
		filters.DateTo = &to
	}

	if userStr := c.Query("user_id"); userStr != "" {
		userID, err := uuid.Parse(userStr)
		if err != nil {
			return filters, models.NewValidationError("user_id", "must be a UUID")
		}
		filters.UserID = &userID
	}

	filters.Limit = queryInt(c, "limit", 0)
	filters.Offset = queryInt(c, "offset", 0)

	return filters, nil
}
