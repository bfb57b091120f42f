package session

import (
	"sync"
	"testing"
	"time"
)

func TestAcquireGetOrCreate(t *testing.T) {
	s := NewStore(0, nil)

	sess, release := s.Acquire(42)
	if sess.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", sess.UserID)
	}
	if sess.SelectedGame != "" || sess.PendingJoinPrompt != nil {
		t.Fatalf("new session should be empty: %+v", sess)
	}
	sess.SelectedGame = "LifeAfter"
	release()

	sess, release = s.Acquire(42)
	defer release()
	if sess.SelectedGame != "LifeAfter" {
		t.Errorf("selection should persist across acquires, got %q", sess.SelectedGame)
	}
	if s.Len() != 1 {
		t.Errorf("expected a single session, got %d", s.Len())
	}
}

func TestAcquireIsolatesUsers(t *testing.T) {
	s := NewStore(0, nil)

	a, releaseA := s.Acquire(1)
	a.SelectedGame = "Valorant"

	// A held session for one user must not block another user.
	done := make(chan struct{})
	go func() {
		b, releaseB := s.Acquire(2)
		if b.SelectedGame != "" {
			t.Errorf("cross-user state leak: %q", b.SelectedGame)
		}
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second user blocked behind first user's session")
	}
	releaseA()
}

func TestAcquireSerializesPerUser(t *testing.T) {
	s := NewStore(0, nil)

	const workers = 8
	const rounds = 25
	var wg sync.WaitGroup

	// Each handler reads then writes without further synchronization; the
	// per-user lock must make the sequence atomic.
	counter := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_, release := s.Acquire(7)
				v := counter
				counter = v + 1
				release()
			}
		}()
	}
	wg.Wait()

	if counter != workers*rounds {
		t.Errorf("lost updates under concurrent acquire: got %d, want %d", counter, workers*rounds)
	}
}

func TestEvictStale(t *testing.T) {
	s := NewStore(time.Millisecond, nil)

	_, release := s.Acquire(1)
	release()
	_, release = s.Acquire(2)
	release()

	if n := s.evictStale(time.Now().Add(time.Second)); n != 2 {
		t.Errorf("expected 2 evictions, got %d", n)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store after eviction, got %d", s.Len())
	}
}

func TestEvictSkipsInFlightSession(t *testing.T) {
	s := NewStore(time.Millisecond, nil)

	_, release := s.Acquire(1)

	if n := s.evictStale(time.Now().Add(time.Second)); n != 0 {
		t.Errorf("in-flight session must not be evicted, got %d evictions", n)
	}
	release()

	if n := s.evictStale(time.Now().Add(time.Second)); n != 1 {
		t.Errorf("expected eviction after release, got %d", n)
	}
}
