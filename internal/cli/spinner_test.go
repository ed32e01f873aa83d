package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func discardSpinner(t *testing.T) {
	t.Helper()
	old, oldUI := spinnerOut, uiOut
	spinnerOut, uiOut = io.Discard, io.Discard
	t.Cleanup(func() { spinnerOut, uiOut = old, oldUI })
}

func TestSpinnerStop(t *testing.T) {
	discardSpinner(t)
	s := newSpinner("Extracting...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	discardSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Extracting...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	discardSpinner(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Extracting...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	discardSpinner(t)
	s := newSpinner("Stopping...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	discardSpinner(t)
	done := make(chan struct{})
	go func() {
		newSpinner("never started").Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop without Start blocked")
	}
}

func TestSpinnerStopMessages(t *testing.T) {
	discardSpinner(t)
	var buf bytes.Buffer
	uiOut = &buf

	s := newSpinner("Extracting...")
	s.Start()
	s.StopWithSuccess("Done")
	s = newSpinner("Extracting...")
	s.Start()
	s.StopWithError("Failed")

	out := buf.String()
	if !strings.Contains(out, "Done") || !strings.Contains(out, "Failed") {
		t.Errorf("status output = %q", out)
	}
}

func TestSpinnerWritesFrames(t *testing.T) {
	discardSpinner(t)
	var buf bytes.Buffer
	spinnerOut = &buf

	s := newSpinner("Extracting...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Extracting...") {
		t.Errorf("spinner output = %q, want the message", buf.String())
	}
}
