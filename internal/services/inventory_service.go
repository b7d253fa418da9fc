package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/cache"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/models"
)

// InventoryService serves the bookable catalog. Single item reads go
// through Redis; cache failures fall back to the database and are
// logged, never surfaced.
type InventoryService struct {
	store  *database.Store
	cache  *cache.RedisCache
	logger *logrus.Logger
}

// NewInventoryService creates a new inventory service. cache may be
// nil when Redis is disabled.
func NewInventoryService(store *database.Store, redisCache *cache.RedisCache, logger *logrus.Logger) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  redisCache,
		logger: logger,
	}
}

// GetItem retrieves one catalog item, read-through cached
func (s *InventoryService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	if s.cache != nil {
		cached, err := s.cache.GetInventoryItem(ctx, itemID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"item_id": itemID,
				"error":   err.Error(),
			}).Warn("Inventory cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	item, err := s.store.Inventory.GetByID(itemID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetInventoryItem(ctx, item); err != nil {
			s.logger.WithFields(logrus.Fields{
				"item_id": itemID,
				"error":   err.Error(),
			}).Warn("Inventory cache write failed")
		}
	}

	return item, nil
}

// Search retrieves catalog items matching the filters
func (s *InventoryService) Search(filters models.InventorySearchFilters) ([]models.InventoryItem, error) {
	return s.store.Inventory.Search(filters)
}

// CreateItem adds a catalog entry
func (s *InventoryService) CreateItem(item *models.InventoryItem) error {
	if !item.TravelMode.IsValid() {
		return models.NewValidationError("travel_mode", "unknown travel mode: "+string(item.TravelMode))
	}
	if item.Title == "" {
		return models.NewValidationError("title", "title is required")
	}
	if item.PriceCents < 0 {
		return models.NewValidationError("price_cents", "price must not be negative")
	}

	if err := s.store.Inventory.Create(item); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":     item.ID,
		"travel_mode": item.TravelMode,
	}).Info("Inventory item created")

	return nil
}

// SetAvailability flips an item's availability flag and invalidates
// the cached copy
func (s *InventoryService) SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error {
	if err := s.store.Inventory.SetAvailability(itemID, available); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateInventoryItem(ctx, itemID); err != nil {
			s.logger.WithFields(logrus.Fields{
				"item_id": itemID,
				"error":   err.Error(),
			}).Warn("Inventory cache invalidation failed")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":   itemID,
		"available": available,
	}).Info("Inventory availability updated")

	return nil
}
