// Package cache provides pluggable caching for rendered artifacts.
//
// Three backends are available: a file cache for CLI usage, a Redis cache
// for shared deployments, and a null cache that disables caching entirely.
// Keys are derived from content hashes, so a cached artifact is valid for
// as long as the document it was rendered from is unchanged.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Keys are content-addressed, so expiration
// only bounds disk/memory growth rather than correctness.
const (
	// TTLArtifact applies to rendered SVG and DOT artifacts.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
