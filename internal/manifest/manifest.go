// Package manifest persists gateway build history in SQLite.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed build.
type Record struct {
	BuildID      string
	StartedAt    time.Time
	DurationMS   int64
	FilesScanned int
	Pages        int
	Files        int
	OutputPath   string
	OutputSHA256 string
}

// Store implements the build history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the store at dbPath.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		files_scanned INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		files INTEGER NOT NULL,
		output_path TEXT NOT NULL,
		output_sha256 TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_build_id ON builds(build_id);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a completed build to the history.
func (s *Store) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (build_id, started_at, duration_ms, files_scanned, pages, files, output_path, output_sha256) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.BuildID, r.StartedAt.Unix(), r.DurationMS, r.FilesScanned, r.Pages, r.Files, r.OutputPath, r.OutputSHA256,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the latest builds, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started_at, duration_ms, files_scanned, pages, files, output_path, output_sha256 FROM builds ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var startedAt int64
		if err := rows.Scan(&r.BuildID, &startedAt, &r.DurationMS, &r.FilesScanned, &r.Pages, &r.Files, &r.OutputPath, &r.OutputSHA256); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
