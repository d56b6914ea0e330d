package http

import (
	"context"
	"testing"
	"time"
)

func TestShutdownSweep(t *testing.T) {
	tr := newTestTransport()

	// Seed live sessions on both bindings.
	var sessions []string
	for i := 0; i < 3; i++ {
		sess, err := tr.createSession()
		if err != nil {
			t.Fatalf("creating session: %v", err)
		}
		sessions = append(sessions, sess.ID)
	}
	stop := startTestServer(t, tr)
	defer stop()

	if tr.store.Len() != 3 {
		t.Fatalf("store has %d sessions, want 3", tr.store.Len())
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if tr.store.Len() != 0 {
		t.Errorf("streaming store not cleared: %d", tr.store.Len())
	}
	if tr.legacy.Len() != 0 {
		t.Errorf("legacy store not cleared: %d", tr.legacy.Len())
	}
	for _, id := range sessions {
		if _, ok := tr.store.Get(id); ok {
			t.Errorf("session %s survived shutdown", id[:8])
		}
	}
}

// startTestServer runs Start on an ephemeral port and returns a stopper.
func startTestServer(t *testing.T, tr *Transport) func() {
	t.Helper()
	tr.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tr.Start(ctx)
	}()

	// Give the listener a moment to come up; Start has no ready signal.
	time.Sleep(50 * time.Millisecond)

	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Start did not return after cancellation")
		}
	}
}

func TestStartStopsOnContextCancel(t *testing.T) {
	tr := newTestTransport()
	tr.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tr.Start(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v, want nil on clean shutdown", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return")
	}
}
