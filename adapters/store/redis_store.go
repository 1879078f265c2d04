package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript compares and deletes the stored challenge in one atomic step so
// two concurrent takes for the same DID can never both succeed. The entry is
// deleted even when the supplied value does not match.
var takeScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v == false then
	return 0
end
redis.call("DEL", KEYS[1])
if v == ARGV[1] then
	return 1
end
return 0
`)

// RedisChallengeStore is a Redis implementation of the ChallengeStore
// interface. Expiry is delegated to Redis key TTLs.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
}

// NewRedisChallengeStore creates a new Redis challenge store.
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "wotid:challenge:",
	}
}

// Put registers a pending challenge for a DID, replacing any prior one.
func (s *RedisChallengeStore) Put(ctx context.Context, did, challenge string, ttl time.Duration) error {
	key := s.prefix + did

	if err := s.client.Set(ctx, key, challenge, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

// Take consumes the pending challenge for a DID.
func (s *RedisChallengeStore) Take(ctx context.Context, did, challenge string) (bool, error) {
	key := s.prefix + did

	n, err := takeScript.Run(ctx, s.client, []string{key}, challenge).Int()
	if err != nil {
		return false, fmt.Errorf("failed to take challenge: %w", err)
	}
	return n == 1, nil
}

// RedisRevocationStore is a Redis implementation of the RevocationStore
// interface.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore creates a new Redis revocation store.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: "wotid:revoked:",
	}
}

// Revoke marks a token ID as revoked in Redis.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	key := s.prefix + tokenID

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks whether a token ID is revoked in Redis.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := s.prefix + tokenID

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return val > 0, nil
}
