package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopEngine struct{}

func (nopEngine) Handle(ctx context.Context, raw []byte) []byte { return nil }

func TestGenerateSessionID(t *testing.T) {
	t.Parallel()

	a, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID() error: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(a))
	}

	b, _ := GenerateSessionID()
	if a == b {
		t.Error("two generated IDs collided")
	}
}

func TestSession_CloseIdempotent(t *testing.T) {
	t.Parallel()

	sess, err := New(nopEngine{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	calls := 0
	sess.OnClose(func() error {
		calls++
		return nil
	})

	if err := sess.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("close hook ran %d times, want 1", calls)
	}
	if !sess.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestStore_LifecycleRemovalIsTerminal(t *testing.T) {
	t.Parallel()

	store := NewStore()
	sess, _ := New(nopEngine{})
	sess.OnClose(func() error {
		store.Remove(sess.ID)
		return nil
	})
	store.Put(sess)

	if _, ok := store.Get(sess.ID); !ok {
		t.Fatal("Get() after Put: session missing")
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// The now-stale token must behave exactly like a never-issued one.
	if _, ok := store.Get(sess.ID); ok {
		t.Error("stale token still resolves after close")
	}
	if _, ok := store.Get("never-issued"); ok {
		t.Error("unknown token resolves")
	}

	// Removing again must be a no-op.
	store.Remove(sess.ID)
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestStore_CloseAll(t *testing.T) {
	t.Parallel()

	store := NewStore()

	const n = 5
	closed := 0
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		sess, _ := New(nopEngine{})
		i := i
		sess.OnClose(func() error {
			mu.Lock()
			closed++
			mu.Unlock()
			if i%2 == 0 {
				return errors.New("stream already gone")
			}
			return nil
		})
		store.Put(sess)
	}

	errs := store.CloseAll()

	// Every session was attempted despite individual failures.
	if closed != n {
		t.Errorf("closed %d sessions, want %d", closed, n)
	}
	if len(errs) != 3 {
		t.Errorf("collected %d errors, want 3", len(errs))
	}
	// The store is empty regardless of close outcomes.
	if store.Len() != 0 {
		t.Errorf("Len() = %d after CloseAll, want 0", store.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := New(nopEngine{})
			if err != nil {
				t.Error(err)
				return
			}
			store.Put(sess)
			store.Get(sess.ID)
			store.Remove(sess.ID)
		}()
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Errorf("Len() = %d after concurrent churn, want 0", store.Len())
	}
}

func TestLegacyStore_FindBySessionID(t *testing.T) {
	t.Parallel()

	store := NewLegacyStore()
	conn := &LegacyConn{
		ConnID:    "local-1",
		SessionID: "proto-abc",
		Engine:    nopEngine{},
		Push:      make(chan []byte, 1),
	}
	store.Add(conn)

	got, ok := store.FindBySessionID("proto-abc")
	if !ok {
		t.Fatal("FindBySessionID(proto-abc) = false")
	}
	if got.ConnID != "local-1" {
		t.Errorf("ConnID = %q, want local-1", got.ConnID)
	}

	// The local ID is not a protocol-level key.
	if _, ok := store.FindBySessionID("local-1"); ok {
		t.Error("local conn ID must not match protocol session lookup")
	}

	store.Remove("local-1")
	if _, ok := store.FindBySessionID("proto-abc"); ok {
		t.Error("connection still found after removal")
	}
}

func TestLegacyStore_Clear(t *testing.T) {
	t.Parallel()

	store := NewLegacyStore()
	for i := 0; i < 3; i++ {
		id, _ := GenerateSessionID()
		store.Add(&LegacyConn{ConnID: id, SessionID: id})
	}

	store.Clear()
	if store.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", store.Len())
	}
}
