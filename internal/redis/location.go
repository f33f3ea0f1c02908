package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocationCacheTTL bounds how stale a cached location list can get when an
// admin change bypasses invalidation.
const LocationCacheTTL = 10 * time.Minute

// All per-state lists live in one hash so a write can drop them together.
const activeLocationsKey = "cache:locations:active"

// CachedLocation is a delivery location as stored in the cache.
type CachedLocation struct {
	ID          int64  `json:"id"`
	StateID     int64  `json:"state_id"`
	StateName   string `json:"state_name"`
	StateCode   string `json:"state_code"`
	Name        string `json:"name"`
	DeliveryFee string `json:"delivery_fee"`
}

// LocationCache caches active delivery locations per state.
type LocationCache struct {
	client *redis.Client
}

// NewLocationCache creates a new LocationCache.
func NewLocationCache(client *redis.Client) *LocationCache {
	return &LocationCache{client: client}
}

func stateField(stateID int64) string {
	if stateID == 0 {
		return "all"
	}
	return strconv.FormatInt(stateID, 10)
}

// GetActiveLocations returns the cached list for stateID, or nil on a miss.
// A zero stateID is the list across all states.
func (c *LocationCache) GetActiveLocations(ctx context.Context, stateID int64) ([]CachedLocation, error) {
	data, err := c.client.HGet(ctx, activeLocationsKey, stateField(stateID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	locations := []CachedLocation{}
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// SetActiveLocations stores the list for stateID.
func (c *LocationCache) SetActiveLocations(ctx context.Context, stateID int64, locations []CachedLocation) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, activeLocationsKey, stateField(stateID), data)
	pipe.Expire(ctx, activeLocationsKey, LocationCacheTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateLocations drops every cached list.
func (c *LocationCache) InvalidateLocations(ctx context.Context) error {
	return c.client.Del(ctx, activeLocationsKey).Err()
}
