package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNullCacheNeverStores(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "icon:v1:abc", []byte(`{"count":3}`), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, "icon:v1:abc")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "icon:v1:abc"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
}

func TestHash(t *testing.T) {
	svg := []byte(`<svg><circle cx="12" cy="12" r="10"/></svg>`)
	if Hash(svg) != Hash(svg) {
		t.Error("Hash is not deterministic")
	}
	if Hash(svg) == Hash(append(svg, ' ')) {
		t.Error("Hash ignores trailing bytes")
	}
	// sha256 of the empty input.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != empty {
		t.Errorf("Hash(nil) = %s, want %s", got, empty)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := IconKeyOpts{Count: 20000, Depth: 0.12, Seed: 1, CurveSamples: 16, ArcSamples: 24}

	tests := []struct {
		name string
		opts IconKeyOpts
	}{
		{"count", IconKeyOpts{Count: 10000, Depth: 0.12, Seed: 1, CurveSamples: 16, ArcSamples: 24}},
		{"depth", IconKeyOpts{Count: 20000, Depth: 0.2, Seed: 1, CurveSamples: 16, ArcSamples: 24}},
		{"seed", IconKeyOpts{Count: 20000, Depth: 0.12, Seed: 2, CurveSamples: 16, ArcSamples: 24}},
		{"exact", IconKeyOpts{Count: 20000, Depth: 0.12, Seed: 1, Exact: true, CurveSamples: 16, ArcSamples: 24}},
		{"curve samples", IconKeyOpts{Count: 20000, Depth: 0.12, Seed: 1, CurveSamples: 8, ArcSamples: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.IconKey("abc", base) == k.IconKey("abc", tt.opts) {
				t.Errorf("IconKey ignores %s", tt.name)
			}
		})
	}

	key := k.IconKey("abc", base)
	if key != k.IconKey("abc", base) {
		t.Error("IconKey is not deterministic")
	}
	prefix := fmt.Sprintf("icon:v%d:", keyVersion)
	if !strings.HasPrefix(key, prefix) || len(key) != len(prefix)+64 {
		t.Errorf("IconKey = %s, want %s<sha256>", key, prefix)
	}
	if k.IconKey("abd", base) == key {
		t.Error("IconKey ignores the markup hash")
	}

	tinted := k.ImageKey("abc", ImageKeyOpts{MaxDimension: 350, Tint: "#ff0000"})
	plain := k.ImageKey("abc", ImageKeyOpts{MaxDimension: 350})
	if tinted == plain {
		t.Error("ImageKey ignores the tint")
	}
	if !strings.HasPrefix(plain, fmt.Sprintf("image:v%d:", keyVersion)) {
		t.Errorf("ImageKey = %s", plain)
	}
}

func TestDefaultKeyerKindsDiffer(t *testing.T) {
	k := NewDefaultKeyer()
	icon := k.IconKey("abc", IconKeyOpts{})
	image := k.ImageKey("abc", ImageKeyOpts{})
	digest := func(s string) string { return s[strings.LastIndexByte(s, ':')+1:] }
	if digest(icon) == digest(image) {
		t.Error("icon and image keys share a digest")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	tests := []struct {
		name   string
		inner  Keyer
		prefix string
	}{
		{"explicit inner", inner, "studio:"},
		{"nil inner", nil, "glyphdust:"},
		{"empty prefix", inner, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewScopedKeyer(tt.inner, tt.prefix)
			opts := IconKeyOpts{Count: 1}
			if got, want := k.IconKey("abc", opts), tt.prefix+inner.IconKey("abc", opts); got != want {
				t.Errorf("IconKey = %s, want %s", got, want)
			}
			if got, want := k.ImageKey("abc", ImageKeyOpts{}), tt.prefix+inner.ImageKey("abc", ImageKeyOpts{}); got != want {
				t.Errorf("ImageKey = %s, want %s", got, want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(fmt.Errorf("%w: dial tcp", ErrNetwork))
	if !IsRetryable(err) {
		t.Error("IsRetryable(Retryable(err)) = false")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable hides the wrapped error")
	}
	if !IsRetryable(fmt.Errorf("get: %w", err)) {
		t.Error("IsRetryable misses a wrapped RetryableError")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable(plain error) = true")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	permanent := errors.New("WRONGTYPE")
	transient := Retryable(ErrNetwork)

	tests := []struct {
		name      string
		failures  []error
		wantErr   error
		wantCalls int
	}{
		{"first try", nil, nil, 1},
		{"permanent error", []error{permanent}, permanent, 1},
		{"recovers", []error{transient}, nil, 2},
		{"gives up", []error{transient, transient, transient, transient}, ErrNetwork, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("RetryWithBackoff() = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}
