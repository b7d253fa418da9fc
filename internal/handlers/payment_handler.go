package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/middleware"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/services"
)

// PaymentHandler handles payment lifecycle endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// ProcessPayment starts collecting a payment for a booking
// @Summary Process payment
// @Description Opens a PROCESSING payment record against a booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.ProcessPaymentRequest true "Payment request"
// @Success 201 {object} models.Payment
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /payments [post]
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	req.UserID = userCtx.UserID

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// UpdatePaymentStatus applies a payment provider callback
// @Summary Update payment status
// @Description Settles a payment; SUCCEEDED confirms the booking, FAILED marks it PAYMENT_FAILED
// @Tags Payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment_id path string true "Payment ID"
// @Param request body models.UpdatePaymentStatusRequest true "Target status"
// @Success 200 {object} models.Payment
// @Failure 404 {object} map[string]interface{} "Payment not found"
// @Failure 409 {object} map[string]interface{} "Transition not permitted"
// @Router /payments/{payment_id}/status [patch]
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_id"})
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	payment, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), paymentID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// RefundPayment refunds a succeeded payment
// @Summary Refund payment
// @Description Refunds a succeeded payment and moves its booking to REFUNDED
// @Tags Payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} map[string]interface{} "Payment not found"
// @Failure 409 {object} map[string]interface{} "Payment not refundable"
// @Router /payments/{payment_id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_id"})
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), paymentID, &userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPayment retrieves a payment
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} map[string]interface{} "Payment not found"
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_id"})
		return
	}

	payment, err := h.paymentService.GetPayment(paymentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetBookingPayments lists a booking's payments, newest first
// @Summary List booking payments
// @Tags Payments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/{booking_id}/payments [get]
func (h *PaymentHandler) GetBookingPayments(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	payments, err := h.paymentService.GetPaymentsByBookingID(bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
