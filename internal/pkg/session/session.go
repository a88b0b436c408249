// Package session implements the server-side session store backing the
// portal's cookie-based login state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session holds the server-side state bound to one issued token.
type Session struct {
	Token     string
	UserID    int64
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store defines the session lifecycle operations used by handlers and
// middleware. Implementations must be safe for concurrent use.
type Store interface {
	// Start issues a new token bound to the given user.
	Start(userID int64, email string) (*Session, error)
	// Get returns the session for a token, or false for unknown or
	// expired tokens.
	Get(token string) (*Session, bool)
	// End invalidates a token. Subsequent Get calls return false.
	End(token string)
}

// MemoryStore is an in-process Store with TTL-based expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	once     sync.Once
}

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// NewMemoryStore creates a MemoryStore and starts its expiry sweeper.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Start issues a new session token for the user.
func (s *MemoryStore) Start(userID int64, email string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return sess, nil
}

// Get looks up a session by token. Expired sessions are removed on access.
func (s *MemoryStore) Get(token string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.End(token)
		return nil, false
	}
	return sess, true
}

// End invalidates a token.
func (s *MemoryStore) End(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Close stops the expiry sweeper.
func (s *MemoryStore) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// sweep periodically drops expired sessions so the map does not grow
// unbounded between lookups.
func (s *MemoryStore) sweep() {
	interval := s.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
