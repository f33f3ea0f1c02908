package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeliveryTTL is how long a processed webhook delivery is remembered.
const DeliveryTTL = 24 * time.Hour

const deliveryPrefix = "webhook:delivery:"

// DeliveryStore remembers webhook deliveries that were already applied so
// gateway redeliveries can be acknowledged without touching the database.
type DeliveryStore struct {
	client *redis.Client
}

// NewDeliveryStore creates a new DeliveryStore.
func NewDeliveryStore(client *redis.Client) *DeliveryStore {
	return &DeliveryStore{client: client}
}

// Seen reports whether the delivery key was remembered.
func (s *DeliveryStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, deliveryPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remember stores the delivery key for ttl.
func (s *DeliveryStore) Remember(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, deliveryPrefix+key, "1", ttl).Err()
}
