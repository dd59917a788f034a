package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func captureSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, msg)
	s.out = &out
	return s, &out
}

func TestSpinnerDraws(t *testing.T) {
	s, out := captureSpinner(context.Background(), "Fetching tree...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Fetching tree...") {
		t.Errorf("output missing message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("Stop should clear the line: %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not mark the spinner cancelled")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s, _ := captureSpinner(ctx, "Waiting...")
			s.Start()
			time.Sleep(60 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation of its parent context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	// Stop before Start must not block.
	s, _ := captureSpinner(context.Background(), "Idle")
	s.Stop()

	s, _ = captureSpinner(context.Background(), "Twice")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	var status bytes.Buffer
	old := statusOut
	statusOut = &status
	t.Cleanup(func() { statusOut = old })

	s, _ := captureSpinner(context.Background(), "Fetching...")
	s.Start()
	s.StopWithSuccess("Fetched tree")
	s, _ = captureSpinner(context.Background(), "Fetching...")
	s.Start()
	s.StopWithError("Fetch failed")

	got := status.String()
	if !strings.Contains(got, "Fetched tree") || !strings.Contains(got, "Fetch failed") {
		t.Errorf("status output = %q", got)
	}
}
