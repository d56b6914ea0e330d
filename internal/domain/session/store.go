package session

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned when a token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// Store tracks live streaming-HTTP sessions keyed by token.
// Thread-safe for concurrent access; sessions themselves are independent,
// so only the map's structural mutations are serialized.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put registers a session under its token. The caller guarantees token
// uniqueness (tokens are 256-bit random values).
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get retrieves a live session by token.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove deletes a token from the store. Idempotent: removing an absent
// token is a no-op, so the terminate and transport-close paths can race
// without double-removal effects.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns the current sessions. The slice is a point-in-time
// copy; entries may close concurrently.
func (s *Store) Snapshot() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// CloseAll closes every session, collecting failures without letting one
// abort the sweep, then clears the store unconditionally. Returns the
// collected close errors.
func (s *Store) CloseAll() []error {
	sessions := s.Snapshot()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	return errs
}
