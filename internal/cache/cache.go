// Package cache provides an explicit cache-aside helper for archive
// responses. Call sites that want caching invoke GetOrFetch with a key, a
// TTL, and a fetch closure; the pipeline's pure stages never see a cache.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Store is a byte-oriented TTL cache backend.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key joins a prefix and parts into a stable cache key.
func Key(prefix string, parts ...string) string {
	return prefix + ":" + strings.Join(parts, ":")
}

// GetOrFetch implements cache-aside: return the cached value for key if
// present, otherwise run fetch, cache its result, and return it. Cache
// backend failures degrade to a plain fetch; they never fail the request.
func GetOrFetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
		// Corrupt entry: fall through and refetch.
	}

	fetched, err := fetch(ctx)
	if err != nil {
		return zero, false, err
	}

	if data, err := json.Marshal(fetched); err == nil {
		// Best-effort write; a failed Set must not fail the request.
		_ = store.Set(ctx, key, data, ttl)
	}

	return fetched, false, nil
}
