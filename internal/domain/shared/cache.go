package shared

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL semantics
type Cache interface {
	// Get returns the cached value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key for the given TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys
	Delete(ctx context.Context, keys ...string) error
}

// ReplayGuard records externally-issued identifiers that have already been
// handled, so repeated deliveries of the same callback are detected
type ReplayGuard interface {
	// MarkProcessed marks an identifier as handled with a TTL.
	// Returns true if the identifier was newly marked, false if it was
	// already present.
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)
}
