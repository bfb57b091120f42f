// Package history records completed lookups. Recording is best effort: a
// failed write is logged by the caller and never affects the user reply.
package history

import (
	"context"
	"time"
)

// Record is one completed lookup.
type Record struct {
	ID        int64
	UserID    int64
	Game      string
	PlayerID  string
	Server    string
	Success   bool
	Name      string
	CreatedAt time.Time
}

// Counts summarizes recorded lookups for the status endpoint.
type Counts struct {
	Total     int64
	Succeeded int64
}

// Store persists lookup records.
type Store interface {
	// Insert records a completed lookup.
	Insert(ctx context.Context, rec Record) error

	// Count returns aggregate lookup counters.
	Count(ctx context.Context) (Counts, error)

	// Recent returns the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases the underlying resources.
	Close() error
}
