// Package session manages transport sessions: the streaming-HTTP session
// store and the legacy pub/sub connection store. Store contents always
// equal the set of live sessions; inserts happen only on create, deletes
// only on close or terminate.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Handler processes one inbound JSON-RPC message for a session and returns
// the response bytes, or nil for notifications. Implemented by the
// protocol engine; declared here so the session domain stays free of
// service imports.
type Handler interface {
	Handle(ctx context.Context, raw []byte) []byte
}

// Session is a stateful binding between one client connection and one
// protocol engine instance, identified by an opaque token.
type Session struct {
	// ID is the server-generated session token, 32 random bytes hex-encoded.
	ID string

	// Engine processes this session's messages.
	Engine Handler

	// CreatedAt is when the session was established (UTC).
	CreatedAt time.Time

	mu      sync.Mutex
	closed  bool
	onClose []func() error
}

// New creates a session bound to the given engine, with a freshly
// generated token.
func New(engine Handler) (*Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		Engine:    engine,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// OnClose registers a cleanup hook to run when the session closes.
// Hooks run at most once, in registration order.
func (s *Session) OnClose(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Close runs the cleanup hooks exactly once and marks the session closed.
// Subsequent calls are no-ops returning nil, so the explicit-terminate and
// transport-close paths may both call it safely.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	hooks := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	var firstErr error
	for _, fn := range hooks {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// GenerateSessionID creates a cryptographically random session token.
// Returns 64 hex characters (32 bytes).
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
