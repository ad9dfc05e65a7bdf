package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	restaurantCachePrefix     = "restaurant:detail:"
	restaurantListCachePrefix = "restaurants:list:"
	defaultCatalogCacheTTL    = 10 * time.Minute
)

// RestaurantCache is a read-through Redis cache in front of the Mongo
// catalog. Misses and marshal failures are silent; the caller falls back to
// the repository.
type RestaurantCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRestaurantCache(client *redis.Client) *RestaurantCache {
	return &RestaurantCache{redis: client, ttl: defaultCatalogCacheTTL}
}

// GetRestaurantList retrieves a cached listing for the given filters.
func (c *RestaurantCache) GetRestaurantList(ctx context.Context, category, search string) ([]models.Restaurant, bool) {
	cached, err := c.redis.Get(ctx, c.listKey(category, search)).Result()
	if err != nil {
		return nil, false
	}

	var restaurants []models.Restaurant
	if err := json.Unmarshal([]byte(cached), &restaurants); err != nil {
		zap.L().Warn("Failed to unmarshal cached restaurant list", zap.Error(err))
		return nil, false
	}
	return restaurants, true
}

// SetRestaurantListAsync caches a listing without blocking the request.
func (c *RestaurantCache) SetRestaurantListAsync(category, search string, restaurants []models.Restaurant) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(restaurants)
		if err != nil {
			zap.L().Warn("Failed to marshal restaurant list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(bgCtx, c.listKey(category, search), payload, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache restaurant list", zap.Error(err))
		}
	}()
}

// GetRestaurant retrieves a cached restaurant document.
func (c *RestaurantCache) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, bool) {
	cached, err := c.redis.Get(ctx, restaurantCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var restaurant models.Restaurant
	if err := json.Unmarshal([]byte(cached), &restaurant); err != nil {
		zap.L().Warn("Failed to unmarshal cached restaurant", zap.Error(err), zap.String("restaurant_id", id))
		return nil, false
	}
	return &restaurant, true
}

// SetRestaurantAsync caches a restaurant document without blocking.
func (c *RestaurantCache) SetRestaurantAsync(id string, restaurant *models.Restaurant) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(restaurant)
		if err != nil {
			zap.L().Warn("Failed to marshal restaurant for cache", zap.Error(err), zap.String("restaurant_id", id))
			return
		}
		if err := c.redis.Set(bgCtx, restaurantCachePrefix+id, payload, c.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache restaurant", zap.Error(err), zap.String("restaurant_id", id))
		}
	}()
}

func (c *RestaurantCache) listKey(category, search string) string {
	return fmt.Sprintf("%s%s:%s", restaurantListCachePrefix, category, search)
}
