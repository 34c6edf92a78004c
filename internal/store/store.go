// Package store defines the durable key-value layer the bookmark collection
// is persisted in. Backends only need get/set of opaque values; ordering,
// merging and capacity are handled by the progress store above them.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is a durable key-value store with get/set semantics.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
