// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about conversions, field animation, cache operations and
// the HTTP server.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConversionHooks(&myConversionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Conversion().OnConvertStart(ctx, "icon")
//	// ... extract, flatten, sample ...
//	observability.Conversion().OnConvertComplete(ctx, "icon", particles, duration, err)
//
// Field hooks carry no context: they fire from the frame loop, which has
// none.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Conversion Hooks
// =============================================================================

// ConversionHooks receives events from markup and image conversions.
type ConversionHooks interface {
	OnConvertStart(ctx context.Context, source string)
	OnConvertComplete(ctx context.Context, source string, particles int, duration time.Duration, err error)

	// OnFallback records that a markup yielded no usable outline and the
	// fallback disk was sampled instead.
	OnFallback(ctx context.Context, reason string)
}

// =============================================================================
// Field Hooks
// =============================================================================

// FieldHooks receives events from particle fields and their installers.
type FieldHooks interface {
	// OnTargetInstalled records a new target taking effect.
	OnTargetInstalled(particles int, resized bool)

	// OnTargetDropped records a result discarded because a newer request
	// superseded it, or because it could not be installed.
	OnTargetDropped(reason string)

	// OnSettled records a field reaching its target.
	OnSettled(ticks int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP server.
type ServerHooks interface {
	// OnRequest records a completed HTTP request.
	OnRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnStreamOpen records a new frame stream.
	OnStreamOpen(ctx context.Context, id string)

	// OnStreamClose records the end of a frame stream.
	OnStreamClose(ctx context.Context, id string, frames int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConversionHooks is a no-op implementation of ConversionHooks.
type NoopConversionHooks struct{}

func (NoopConversionHooks) OnConvertStart(context.Context, string) {}
func (NoopConversionHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopConversionHooks) OnFallback(context.Context, string) {}

// NoopFieldHooks is a no-op implementation of FieldHooks.
type NoopFieldHooks struct{}

func (NoopFieldHooks) OnTargetInstalled(int, bool) {}
func (NoopFieldHooks) OnTargetDropped(string)      {}
func (NoopFieldHooks) OnSettled(int)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnStreamOpen(context.Context, string)                          {}
func (NoopServerHooks) OnStreamClose(context.Context, string, int, error)             {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	conversionHooks ConversionHooks = NoopConversionHooks{}
	fieldHooks      FieldHooks      = NoopFieldHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	serverHooks     ServerHooks     = NoopServerHooks{}
	hooksMu         sync.RWMutex
)

// SetConversionHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConversionHooks(h ConversionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		conversionHooks = h
	}
}

// SetFieldHooks registers custom field hooks.
func SetFieldHooks(h FieldHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fieldHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Conversion returns the registered conversion hooks.
func Conversion() ConversionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return conversionHooks
}

// Field returns the registered field hooks.
func Field() FieldHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fieldHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	conversionHooks = NoopConversionHooks{}
	fieldHooks = NoopFieldHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
