// Package cache stores computed diagrams and rendered artifacts.
//
// All backends implement [Cache], a byte-oriented key/value store with
// optional expiry:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are produced by a [Keyer] from content hashes, so identical diagram
// files map to the same entry regardless of where they came from.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().DiagramKey(cache.SpecHash(data), cache.DiagramKeyOpts{NodeRadius: 25})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the stored data and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLDiagram applies to resolved diagrams. Resolution is deterministic,
	// so entries only expire to bound disk and memory use.
	TTLDiagram = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG previews and dependency graphs.
	TTLArtifact = 7 * 24 * time.Hour
)
