package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aybee/nickbot/internal/history"
)

// SQLiteStore implements history.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS lookups (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL,
		game       TEXT NOT NULL,
		player_id  TEXT NOT NULL,
		server     TEXT NOT NULL DEFAULT '',
		success    BOOLEAN NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_lookups_user ON lookups(user_id);
`

// New creates a new SQLite history store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert records a completed lookup.
func (s *SQLiteStore) Insert(ctx context.Context, rec history.Record) error {
	query := `
		INSERT INTO lookups (user_id, game, player_id, server, success, name)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.UserID, rec.Game, rec.PlayerID, rec.Server, rec.Success, rec.Name)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// Count returns aggregate lookup counters.
func (s *SQLiteStore) Count(ctx context.Context) (history.Counts, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(success), 0)
		FROM lookups
	`
	var counts history.Counts
	if err := s.db.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Succeeded); err != nil {
		return history.Counts{}, fmt.Errorf("count lookups: %w", err)
	}
	return counts, nil
}

// Recent returns the most recent records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	query := `
		SELECT id, user_id, game, player_id, server, success, name, created_at
		FROM lookups
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent lookups: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Game, &rec.PlayerID,
			&rec.Server, &rec.Success, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lookup row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookup rows: %w", err)
	}
	return records, nil
}
