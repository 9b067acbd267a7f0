// Package cache stores rendered artifacts so that repeated conversions of
// the same diagram can be skipped.
//
// The CLI uses a [FileCache] keyed on a hash of the SVG bytes plus the
// output format and scale: rendering the same dataset with the same template
// twice produces identical SVG, so the expensive rsvg conversion only runs
// once. A [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for rendered artifacts.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for a converted render artifact.
// The key combines the source SVG hash with the output format and scale, so
// different conversions of the same SVG are cached independently.
func ArtifactKey(svg []byte, format string, scale float64) string {
	return hashKey("artifact", Hash(svg), format, scale)
}
