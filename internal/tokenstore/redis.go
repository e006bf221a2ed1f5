package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKey = "ideenboard:credentials"

// RedisStore keeps the credential record under a single Redis key. It is the
// backend of choice when worker processes do not share a filesystem, e.g.
// when the server runs as multiple containers behind one load balancer.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the record from Redis. A missing key and an undecodable value
// are both reported as absence, matching the file store's recovery policy.
func (s *RedisStore) Load(ctx context.Context) (*Credentials, error) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt state forces a fresh login rather than a hard failure.
		return nil, nil
	}
	return &creds, nil
}

// Save replaces the record. No TTL is set: expiry is interpreted by the
// lifecycle manager, and a stale refresh token is still useful.
func (s *RedisStore) Save(ctx context.Context, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear deletes the record. Deleting a missing key is not an error.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
