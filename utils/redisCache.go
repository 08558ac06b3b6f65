package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var cacheClient *redis.Client

// CacheTTL is short on purpose: availability answers go stale the
// moment anyone reserves, and invalidation already covers mutations on
// this node; the TTL only bounds staleness from other writers.
const CacheTTL = 30 * time.Second

// InitCache stores the Redis client for the caching helpers.
func InitCache(client *redis.Client) {
	cacheClient = client
}

// AvailabilityCacheKey builds the cache key for one product/window pair.
func AvailabilityCacheKey(productID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%s",
		productID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// CacheJSON stores any serializable value under key with the default TTL.
func CacheJSON(ctx context.Context, key string, value interface{}) error {
	if cacheClient == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cacheClient.Set(ctx, key, payload, CacheTTL).Err()
}

// GetCachedJSON loads a cached value into dest; returns false on miss.
func GetCachedJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if cacheClient == nil {
		return false, nil
	}
	payload, err := cacheClient.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(payload, dest)
}

// InvalidateCache removes all cached keys for the given resource type,
// e.g. "availability:<productID>". Uses SCAN instead of KEYS so a large
// keyspace doesn't block Redis.
func InvalidateCache(resourceType string) error {
	if cacheClient == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := cacheClient.Scan(context.Background(), 0, pattern, 0).Iterator()

	for iter.Next(context.Background()) {
		key := iter.Val()
		err := cacheClient.Del(context.Background(), key).Err()
		if err != nil {
			return fmt.Errorf("failed to delete key %s: %v", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error during SCAN iteration: %v", err)
	}

	return nil
}

// InvalidateCacheAsync invalidates the cache for a given resource type
// without blocking the request path.
func InvalidateCacheAsync(resourceType string) {
	go func() {
		err := InvalidateCache(resourceType)
		if err != nil {
			log.Printf("Cache invalidation failed for resource type '%s': %v", resourceType, err)
		}
	}()
}

// InvalidateProductAvailability drops every cached window for a product
// after its ledger changes.
func InvalidateProductAvailability(productID uuid.UUID) {
	InvalidateCacheAsync(fmt.Sprintf("availability:%s", productID))
}
