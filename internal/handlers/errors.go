package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/models"
)

// queryInt reads an integer query parameter, falling back on absent or
// malformed values
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// respondError maps service errors onto HTTP responses. Validation
// problems are 400, missing records 404, state machine and inventory
// conflicts 409, everything else a logged 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
		return
	}

	if models.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	var transitionErr *models.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_transition",
			"object":  transitionErr.ObjectType,
			"from":    transitionErr.From,
			"to":      transitionErr.To,
			"message": transitionErr.Error(),
		})
		return
	}

	if errors.Is(err, models.ErrInventoryUnavailable) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "inventory_unavailable",
			"message": err.Error(),
		})
		return
	}

	logger.WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An internal error occurred",
	})
}
