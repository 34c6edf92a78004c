package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/store"
)

// Store keeps values in process memory. Nothing survives a restart; it is
// meant for tests and for running without any external dependency.
type Store struct {
	mu        sync.RWMutex
	values    map[string][]byte // key -> value
	lastWrite time.Time         // Timestamp of the last Set
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set replaces the value stored under key
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	s.lastWrite = time.Now()
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *Store) Close() error { return nil }

// Count returns the number of keys held
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// LastWrite returns the timestamp of the last Set
func (s *Store) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}
