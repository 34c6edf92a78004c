package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/readmark/internal/store"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this store writes.
const KeyPrefix = "readmark:"

// Store is a KV backend on top of a redis client. Values are kept without
// TTL: the bookmark collection is authoritative state, not a cache.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Key returns the namespaced redis key for a store key
func Key(key string) string {
	return KeyPrefix + key
}

// Get retrieves a value from Redis
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set stores a value in Redis
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
