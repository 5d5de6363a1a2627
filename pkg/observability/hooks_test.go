package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Conversion hooks
	p := NoopConversionHooks{}
	p.OnConvertStart(ctx, "icon")
	p.OnConvertComplete(ctx, "icon", 20000, time.Second, nil)
	p.OnFallback(ctx, "no primitives")

	// Field hooks
	f := NoopFieldHooks{}
	f.OnTargetInstalled(20000, false)
	f.OnTargetDropped("stale")
	f.OnSettled(83)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "icon")
	c.OnCacheMiss(ctx, "image")
	c.OnCacheSet(ctx, "icon", 1024)

	// Server hooks
	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/icon", 200, time.Second)
	s.OnStreamOpen(ctx, "abc")
	s.OnStreamClose(ctx, "abc", 600, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Conversion().(NoopConversionHooks); !ok {
		t.Error("Conversion() should return NoopConversionHooks by default")
	}
	if _, ok := Field().(NoopFieldHooks); !ok {
		t.Error("Field() should return NoopFieldHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	// Set custom hooks
	customConversion := &testConversionHooks{}
	SetConversionHooks(customConversion)
	if Conversion() != customConversion {
		t.Error("SetConversionHooks should set custom hooks")
	}

	customField := &testFieldHooks{}
	SetFieldHooks(customField)
	if Field() != customField {
		t.Error("SetFieldHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Conversion().(NoopConversionHooks); !ok {
		t.Error("Reset() should restore NoopConversionHooks")
	}
	if _, ok := Field().(NoopFieldHooks); !ok {
		t.Error("Reset() should restore NoopFieldHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testConversionHooks{}
	SetConversionHooks(custom)

	// Setting nil should be ignored
	SetConversionHooks(nil)

	if Conversion() != custom {
		t.Error("SetConversionHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testConversionHooks struct{ NoopConversionHooks }
type testFieldHooks struct{ NoopFieldHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
