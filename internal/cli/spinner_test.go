package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/layermerge/pkg/errors"
)

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Connecting to redis cache...")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.succeed("Connected to redis cache")

	out := buf.String()
	if !strings.Contains(out, "Connecting to redis cache...") {
		t.Errorf("output %q should contain the spinner message", out)
	}
	if !strings.HasSuffix(out, "Connected to redis cache\n") {
		t.Errorf("output %q should end with the success line", out)
	}
	if s.cancelled() {
		t.Error("cancelled() = true after a normal stop")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Connecting to mongo cache...")
	s.fail("Could not open mongo cache")
	s.stop()

	if got := buf.String(); strings.Contains(got, "Connecting") || !strings.Contains(got, "Could not open mongo cache") {
		t.Errorf("output = %q, want only the failure line", got)
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Connecting to redis cache...")
	s.start()
	s.stop()

	done := make(chan struct{})
	go func() {
		s.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second stop blocked")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &buf, "Connecting to mongo cache...")
	s.start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
	if !s.cancelled() {
		t.Error("cancelled() = false after the context ended")
	}
	s.stop()
}

func TestOpenServerCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	t.Run("memory opens without spinner", func(t *testing.T) {
		var status bytes.Buffer
		store, err := c.openServerCache(context.Background(), &status, CacheConfig{Backend: backendMemory, Size: 16})
		if err != nil {
			t.Fatalf("openServerCache: %v", err)
		}
		defer store.Close()
		if status.Len() != 0 {
			t.Errorf("status = %q, want nothing for a local backend", status.String())
		}
	})

	t.Run("bad redis url fails", func(t *testing.T) {
		var status bytes.Buffer
		_, err := c.openServerCache(context.Background(), &status, CacheConfig{Backend: backendRedis, RedisURL: "http://localhost:6379"})
		if err == nil {
			t.Fatal("expected an error for an http redis url")
		}
		if !strings.Contains(err.Error(), "open redis cache") {
			t.Errorf("err = %v, want it to name the backend", err)
		}
		if apperr.GetCode(err) != apperr.ErrCodeInvalidInput {
			t.Errorf("code = %q, want %q", apperr.GetCode(err), apperr.ErrCodeInvalidInput)
		}
		if !strings.Contains(status.String(), "Could not open redis cache") {
			t.Errorf("status = %q, want the failure line", status.String())
		}
	})
}
