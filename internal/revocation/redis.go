package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revoked:"

// RedisStore is the hot-path revocation store. Entries carry a TTL equal
// to the token's remaining lifetime, so eviction happens in Redis itself
// and an entry never outlives the token it shadows.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// IsRevoked checks entry existence.
func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+entryKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke inserts an entry expiring when the token itself would have.
// Revoking an already-expired token is a no-op: expiry checks reject it
// anyway, and storing it would only grow the set.
func (s *RedisStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return s.client.Set(ctx, redisKeyPrefix+entryKey(token), "1", ttl).Err()
}
