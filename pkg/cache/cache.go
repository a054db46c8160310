// Package cache stores generated designs and rendered previews.
//
// Rendering the same design text at the same size is deterministic, so the
// pipeline keys artifacts by a hash of everything that affects the output
// and skips the render on a hit. Seeded layouts are cached the same way.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the server
//   - [LRUCache]: a bounded in-memory cache, for a single server process
//   - [NullCache]: stores nothing, for tests or --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Default entry lifetimes.
const (
	// TTLDesign applies to seeded layouts.
	TTLDesign = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered previews.
	TTLArtifact = 24 * time.Hour
)
