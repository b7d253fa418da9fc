package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/middleware"
	"github.com/voyagehub/booking-backend/internal/models"
	"github.com/voyagehub/booking-backend/internal/services"
	"github.com/voyagehub/booking-backend/internal/utils"
)

// InventoryHandler handles catalog endpoints
type InventoryHandler struct {
	inventoryService *services.InventoryService
	auditService     *services.AuditService
	logger           *logrus.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	inventoryService *services.InventoryService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		auditService:     auditService,
		logger:           logger,
	}
}

// SearchInventory searches the bookable catalog
// @Summary Search inventory
// @Tags Inventory
// @Produce json
// @Param travel_mode query string false "Travel mode filter"
// @Param location query string false "Location substring filter"
// @Param min_price_cents query int false "Minimum price in cents"
// @Param max_price_cents query int false "Maximum price in cents"
// @Param available query bool false "Availability filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Router /inventory [get]
func (h *InventoryHandler) SearchInventory(c *gin.Context) {
	var filters models.InventorySearchFilters

	if modeStr := c.Query("travel_mode"); modeStr != "" {
		mode := models.TravelMode(modeStr)
		if !mode.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown travel mode: " + modeStr})
			return
		}
		filters.TravelMode = &mode
	}
	if location := c.Query("location"); location != "" {
		filters.Location = &location
	}
	if minPrice := queryInt(c, "min_price_cents", -1); minPrice >= 0 {
		value := int64(minPrice)
		filters.MinPriceCents = &value
	}
	if maxPrice := queryInt(c, "max_price_cents", -1); maxPrice >= 0 {
		value := int64(maxPrice)
		filters.MaxPriceCents = &value
	}
	if availStr := c.Query("available"); availStr != "" {
		available := availStr == "true"
		filters.IsAvailable = &available
	}
	filters.Limit = queryInt(c, "limit", 0)
	filters.Offset = queryInt(c, "offset", 0)

	items, err := h.inventoryService.Search(filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetInventoryItem retrieves one catalog item
// @Summary Get inventory item
// @Tags Inventory
// @Produce json
// @Param item_id path string true "Inventory item ID"
// @Success 200 {object} models.InventoryItem
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Router /inventory/{item_id} [get]
func (h *InventoryHandler) GetInventoryItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateInventoryItem adds a catalog entry. Admin only.
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.InventoryItem true "Inventory item"
// @Success 201 {object} models.InventoryItem
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /inventory [post]
func (h *InventoryHandler) CreateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := h.inventoryService.CreateItem(&item); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// SetAvailabilityRequest is the body for availability updates
type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// SetInventoryAvailability flips an item's availability flag. Admin only.
// @Summary Set inventory availability
// @Tags Inventory
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param item_id path string true "Inventory item ID"
// @Param request body SetAvailabilityRequest true "Availability flag"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Router /inventory/{item_id}/availability [patch]
func (h *InventoryHandler) SetInventoryAvailability(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available flag is required"})
		return
	}

	if err := h.inventoryService.SetAvailability(c.Request.Context(), itemID, *req.Available); err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Availability flips happen outside any lifecycle transaction, so
	// the audit entry is recorded here with the request context
	entry := &models.AuditLogEntry{
		UserID:     &userCtx.UserID,
		Action:     models.AuditActionInventoryUpdated,
		ObjectType: models.AuditObjectInventory,
		ObjectID:   itemID,
		Details:    models.JSONB{"available": *req.Available},
	}
	if err := h.auditService.Record(entry, utils.GetRealIP(c), utils.GetUserAgent(c)); err != nil {
		h.logger.WithError(err).Warn("Failed to record inventory audit entry")
	}

	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "available": *req.Available})
}
