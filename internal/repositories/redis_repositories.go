package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/pkg/cache"
)

// CartStorageKey is the well-known key prefix of persisted cart item lists.
const CartStorageKey = "cart"

type redisCartRepository struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisCartRepository stores each session's item list under
// "cart:<sessionID>". A ttl of zero keeps entries forever.
func NewRedisCartRepository(cache *cache.RedisCache, ttl time.Duration) CartRepository {
	return &redisCartRepository{cache: cache, ttl: ttl}
}

func (r *redisCartRepository) SaveItems(ctx context.Context, sessionID string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	return r.cache.SetWithPrefix(ctx, CartStorageKey, sessionID, items, r.ttl)
}

func (r *redisCartRepository) LoadItems(ctx context.Context, sessionID string) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.cache.GetWithPrefix(ctx, CartStorageKey, sessionID, &items)
	if cache.IsMiss(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	return items, nil
}
