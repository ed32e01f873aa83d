package cache

import (
	"context"
	"time"
)

var _ Cache = (*NullCache)(nil)

// NullCache stores nothing. The pipeline runner falls back to it when no cache
// is given, and the CLI uses it for --no-cache and [cache] disabled = true, so
// every extraction recomputes.
type NullCache struct{}

// NewNullCache returns a cache on which every lookup misses.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
