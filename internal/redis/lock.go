package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckoutLockTTL bounds how long an order stays locked if the holder dies
// before releasing it. It covers one gateway round trip.
const CheckoutLockTTL = 30 * time.Second

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func checkoutLockKey(orderID int64) string {
	return fmt.Sprintf("lock:checkout:%d", orderID)
}

// AcquireCheckoutLock attempts to lock checkout initiation for an order.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireCheckoutLock(ctx context.Context, orderID int64, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, checkoutLockKey(orderID), "1", ttl).Result()
}

// ReleaseCheckoutLock releases the checkout lock for an order.
func (s *LockStore) ReleaseCheckoutLock(ctx context.Context, orderID int64) error {
	return s.client.Del(ctx, checkoutLockKey(orderID)).Err()
}
