package session

import (
	"sync"
	"time"
)

// LegacyConn is one connection on the legacy pub/sub binding: a long-lived
// outbound stream plus a separate inbound message endpoint.
//
// Two identifiers are deliberate: ConnID is the local store key assigned at
// stream-open, while SessionID is the protocol-level identifier advertised
// to the client in the endpoint event. The inbound message endpoint only
// carries SessionID, so lookups on that path scan for it.
type LegacyConn struct {
	// ConnID is the locally generated store key.
	ConnID string

	// SessionID is the protocol-level session identifier the client echoes
	// back on message submission.
	SessionID string

	// Engine processes messages submitted to this connection.
	Engine Handler

	// Push carries response payloads to the outbound stream writer.
	Push chan []byte

	// CreatedAt is when the stream was opened (UTC).
	CreatedAt time.Time
}

// LegacyStore tracks open legacy connections keyed by local connection ID.
// There is no explicit termination path on this binding; entries are
// removed only when the underlying stream closes.
type LegacyStore struct {
	mu    sync.RWMutex
	conns map[string]*LegacyConn
}

// NewLegacyStore creates an empty legacy connection store.
func NewLegacyStore() *LegacyStore {
	return &LegacyStore{conns: make(map[string]*LegacyConn)}
}

// Add registers a connection under its local ID.
func (s *LegacyStore) Add(conn *LegacyConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.ConnID] = conn
}

// Remove deletes a connection by local ID. Idempotent.
func (s *LegacyStore) Remove(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, connID)
}

// FindBySessionID locates the connection whose protocol-level session ID
// matches. Linear scan: the message endpoint cannot supply the local ID,
// and connection counts on this binding are small.
func (s *LegacyStore) FindBySessionID(sessionID string) (*LegacyConn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conn := range s.conns {
		if conn.SessionID == sessionID {
			return conn, true
		}
	}
	return nil, false
}

// Len returns the number of open connections.
func (s *LegacyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// Clear drops every connection without waiting on per-connection cleanup.
// Used by the shutdown sweep (best effort by design).
func (s *LegacyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns = make(map[string]*LegacyConn)
}
