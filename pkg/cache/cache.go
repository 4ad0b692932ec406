// Package cache stores solved layouts and rendered artifacts.
//
// Solving is the expensive step of drawing a tower, and the result depends
// only on the graph and a handful of layout options. The pipeline hashes
// both into a key (see [Keyer]) and keeps the serialized layout in a
// [Cache]. Backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: an in-process LRU, for the HTTP server
//   - [RedisCache] and [MongoCache]: shared caches for several servers
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a URL.
package cache

import (
	"context"
	"time"
)

// Default lifetimes. A layout never goes stale for the same input, so the
// TTLs only bound storage.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if it supports it.
func Clear(ctx context.Context, c Cache) error {
	cl, ok := c.(Clearer)
	if !ok {
		return ErrClearUnsupported
	}
	return cl.Clear(ctx)
}
