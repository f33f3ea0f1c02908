package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for per-order checkout locking.
type LockStoreInterface interface {
	AcquireCheckoutLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, orderID int64) error
}

// DeliveryStoreInterface defines the interface for webhook delivery dedup.
type DeliveryStoreInterface interface {
	Seen(ctx context.Context, key string) (bool, error)
	Remember(ctx context.Context, key string, ttl time.Duration) error
}

// LocationCacheInterface defines the interface for the active-locations cache.
type LocationCacheInterface interface {
	GetActiveLocations(ctx context.Context, stateID int64) ([]CachedLocation, error)
	SetActiveLocations(ctx context.Context, stateID int64, locations []CachedLocation) error
	InvalidateLocations(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface     = (*LockStore)(nil)
	_ DeliveryStoreInterface = (*DeliveryStore)(nil)
	_ LocationCacheInterface = (*LocationCache)(nil)
)
