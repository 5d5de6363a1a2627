package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinner(ctx, msg)
	s.w = &out
	return s, &out
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, out := testSpinner(context.Background(), "Converting logo.svg...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Converting logo.svg...") {
		t.Errorf("output = %q, want the message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output = %q, want a cleared line at the end", got)
	}
	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerStopBeforeFirstFrame(t *testing.T) {
	s, out := testSpinner(context.Background(), "quick")
	s.Start()
	s.Stop()
	if got := out.String(); strings.Contains(got, "quick") && !strings.HasSuffix(got, "\r") {
		t.Errorf("output = %q, want nothing or a cleared line", got)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, "waiting")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "idempotent")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithStatus(t *testing.T) {
	var out bytes.Buffer
	old := uiOut
	uiOut = &out
	defer func() { uiOut = old }()

	s, _ := testSpinner(context.Background(), "working")
	s.Start()
	s.StopWithSuccess("Done")
	s2, _ := testSpinner(context.Background(), "working")
	s2.Start()
	s2.StopWithError("Failed")

	got := out.String()
	if !strings.Contains(got, iconSuccess+" Done") || !strings.Contains(got, "Failed") {
		t.Errorf("status output = %q", got)
	}
}

func TestSpinnerFreshIsRunning(t *testing.T) {
	s, out := testSpinner(context.Background(), "background")
	if s.Cancelled() {
		t.Error("new spinner is already cancelled")
	}
	s.Start()
	s.Stop()
	if strings.Contains(out.String(), "background") && !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("output = %q, want a cleared line", out.String())
	}
}
