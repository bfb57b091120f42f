// Package session tracks per-user conversation state: the currently selected
// game and the reference to a pending "please join" prompt.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MessageRef identifies a sent chat message so it can be edited or deleted later.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// Session is one user's transient interaction state. SelectedGame is a catalog
// key; empty means no selection. Fields are only touched between Acquire and
// its release.
type Session struct {
	UserID            int64
	SelectedGame      string
	PendingJoinPrompt *MessageRef
}

type entry struct {
	mu       sync.Mutex
	session  Session
	lastSeen time.Time
}

// Store owns all sessions, keyed by user id. Acquire serializes handler
// execution per user; different users never contend.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
	ttl     time.Duration
	log     *zerolog.Logger
}

// NewStore creates an empty session store. A non-positive ttl disables
// idle eviction.
func NewStore(ttl time.Duration, logger *zerolog.Logger) *Store {
	return &Store{
		entries: make(map[int64]*entry),
		ttl:     ttl,
		log:     logger,
	}
}

// Acquire returns the user's session (created empty on first access) and a
// release func. A second Acquire for the same user blocks until release, so
// overlapping events for one user cannot interleave session mutations.
func (s *Store) Acquire(userID int64) (*Session, func()) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{session: Session{UserID: userID}}
		s.entries[userID] = e
	}
	// Refresh before blocking on the entry lock so the janitor never evicts
	// an entry that has a waiter.
	e.lastSeen = time.Now()
	s.mu.Unlock()

	e.mu.Lock()
	return &e.session, func() {
		s.mu.Lock()
		e.lastSeen = time.Now()
		s.mu.Unlock()
		e.mu.Unlock()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run evicts idle sessions until the context is cancelled.
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		<-ctx.Done()
		return
	}

	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.evictStale(time.Now()); n > 0 && s.log != nil {
				s.log.Debug().Int("evicted", n).Msg("evicted idle sessions")
			}
		case <-ctx.Done():
			return
		}
	}
}

// evictStale removes sessions idle longer than the ttl. An entry whose lock
// is held (a handler is in flight) is skipped and retried next tick.
func (s *Store) evictStale(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, e := range s.entries {
		if now.Sub(e.lastSeen) < s.ttl {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(s.entries, userID)
		e.mu.Unlock()
		evicted++
	}
	return evicted
}
