// Package cache provides pluggable caching for rendered diagram artifacts.
//
// Rendering a diagram through Graphviz is the one expensive, external step
// in the pipeline, so its outputs are cached keyed by a content hash of the
// canonical diagram text plus the output format. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for server deployments,
// and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached artifacts stay valid.
const DefaultTTL = 24 * time.Hour

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKey derives the cache key for a rendered artifact from the
// diagram text and output format. Identical text always produces the same
// key, so canonicalizing before rendering maximizes hit rates.
func RenderKey(text, format string) string {
	return hashKey("render", text, format)
}

// GraphKey derives the cache key for a parsed graph from diagram text.
func GraphKey(text string) string {
	return hashKey("graph", text)
}
