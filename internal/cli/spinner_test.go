package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestSpinnerUpdate(t *testing.T) {
	buf := captureUI(t)
	s := newSpinner("Solving layout")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Update("Solving layout (bound 12)")
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "bound 12") {
		t.Errorf("updated message not shown: %q", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	captureUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Solving layout")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its parent")
	}
	s.Stop()
}

func TestSpinnerStopIdempotent(t *testing.T) {
	captureUI(t)
	s := newSpinner("x")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	captureUI(t)
	done := make(chan struct{})
	go func() {
		newSpinner("never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestStopWithSuccess(t *testing.T) {
	buf := captureUI(t)
	s := newSpinner("Rendering")
	s.Start()
	s.StopWithSuccess("Rendered tower.svg")
	if !strings.Contains(buf.String(), "Rendered tower.svg") {
		t.Errorf("success line missing: %q", buf.String())
	}
}
