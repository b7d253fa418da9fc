package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/models"
)

// RedisCache caches inventory item reads. Misses return (nil, nil) so
// callers can fall through to the database without error handling
// branching on redis.Nil.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache backed by a Redis connection
func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL,
	}
}

// GetInventoryItem returns the cached item, or nil on a miss
func (c *RedisCache) GetInventoryItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	data, err := c.client.Get(ctx, inventoryItemKey(itemID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var item models.InventoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetInventoryItem stores an item under its ID for the configured TTL
func (c *RedisCache) SetInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, inventoryItemKey(item.ID), payload, c.ttl).Err()
}

// InvalidateInventoryItem drops a cached item after a write
func (c *RedisCache) InvalidateInventoryItem(ctx context.Context, itemID uuid.UUID) error {
	return c.client.Del(ctx, inventoryItemKey(itemID)).Err()
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func inventoryItemKey(itemID uuid.UUID) string {
	return fmt.Sprintf("cache:inventory:%s", itemID)
}
