package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage adapts a go-redis client to fiber.Storage so the rate limiter can
// keep its counters in Redis and survive process restarts.
type Storage struct {
	client *redis.Client
	ctx    context.Context
}

// New creates a Storage backed by the given Redis client.
func New(client *redis.Client) *Storage {
	return &Storage{
		client: client,
		ctx:    context.Background(),
	}
}

// Get returns the value for the key, or nil if the key does not exist.
func (s *Storage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(s.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores the value under the key with an optional expiration.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(s.ctx, key, val, exp).Err()
}

// Delete removes the key.
func (s *Storage) Delete(key string) error {
	return s.client.Del(s.ctx, key).Err()
}

// Reset flushes the current database.
func (s *Storage) Reset() error {
	return s.client.FlushDB(s.ctx).Err()
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}
