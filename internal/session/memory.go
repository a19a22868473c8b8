package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps conversation history in process memory. Histories live
// for the process lifetime unless a TTL is configured; there is no size cap.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	mu      sync.Mutex
	turns   []Turn
	touched time.Time
}

// NewMemoryStore returns an empty in-memory store. A ttl of zero disables
// expiry; otherwise a session idle longer than ttl is reset on next access.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

var _ Store = (*MemoryStore)(nil)

// History returns a copy of the user's history, creating an empty session on
// first use.
func (s *MemoryStore) History(_ context.Context, userID string) ([]Turn, error) {
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.expireLocked(sess)

	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

// Append adds turns to the end of the user's history. The per-session lock
// serializes concurrent appends for the same user.
func (s *MemoryStore) Append(_ context.Context, userID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	sess := s.getOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.expireLocked(sess)

	sess.turns = append(sess.turns, turns...)
	sess.touched = s.now()
	return nil
}

// Len reports the number of turns recorded for userID.
func (s *MemoryStore) Len(userID string) int {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

func (s *MemoryStore) getOrCreate(userID string) *memorySession {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[userID]; ok {
		return sess
	}
	sess = &memorySession{touched: s.now()}
	s.sessions[userID] = sess
	return sess
}

// expireLocked resets a session whose idle time exceeded the TTL. Caller
// holds the session lock.
func (s *MemoryStore) expireLocked(sess *memorySession) {
	if s.ttl <= 0 || len(sess.turns) == 0 {
		return
	}
	if s.now().Sub(sess.touched) > s.ttl {
		sess.turns = nil
	}
}
