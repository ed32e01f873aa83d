// Package cache provides a content-addressed store for extraction results.
//
// Results are keyed by a hash of the netlist content plus every option that
// changes the output, so an edited netlist or a different configuration never
// hits a stale entry. [FileCache] persists entries on disk for the CLI;
// [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value and true, or nil and false on a miss. Expired or
	// corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted or cleared.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
