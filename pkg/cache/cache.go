// Package cache stores conversion results so repeated requests skip
// extraction and sampling.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [MemoryCache]: an in-process map, for the HTTP server and tests
//   - [RedisCache]: a shared Redis instance, for multi-instance servers
//   - [NullCache]: stores nothing, for --no-cache
//
// # Keys
//
// A [Keyer] derives keys from the hash of the input (markup text or image
// bytes) plus every option that changes the output. Keys have the form
// "kind:sha256" so that backends can be inspected by kind. [ScopedKeyer]
// adds a prefix for namespacing.
//
// # Retries
//
// Network backends wrap transient failures with [Retryable]; callers run
// operations through [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind.
const (
	// IconTTL applies to icon conversions. Markup is small and stable.
	IconTTL = 30 * 24 * time.Hour

	// ImageTTL applies to image conversions, which are larger.
	ImageTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
