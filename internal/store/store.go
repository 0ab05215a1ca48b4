// Package store persists per-file TOON digests in SQLite. Rows are
// keyed by relative path and carry the content hash they were computed
// from, which is what makes incremental runs cheap: unchanged files are
// skipped without re-parsing.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS digests (
	path         TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	item_count   INTEGER NOT NULL,
	digest       TEXT NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP NOT NULL,
	files_seen     INTEGER NOT NULL,
	files_digested INTEGER NOT NULL,
	items_found    INTEGER NOT NULL
);
`

// FileDigest is one stored digest row.
type FileDigest struct {
	Path        string // relative to the project root, slash separated
	ContentHash string // sha256 of the source bytes
	ItemCount   int
	Digest      string // newline-joined TOON lines
	UpdatedAt   time.Time
}

// Run records one digest run for bookkeeping.
type Run struct {
	ID            string // uuid
	StartedAt     time.Time
	FinishedAt    time.Time
	FilesSeen     int
	FilesDigested int
	ItemsFound    int
}

// Store wraps the SQLite digest database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the digest store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored digest for a path, or nil when none exists.
func (s *Store) Get(path string) (*FileDigest, error) {
	row := s.db.QueryRow(
		`SELECT path, content_hash, item_count, digest, updated_at FROM digests WHERE path = ?`,
		path,
	)

	var d FileDigest
	err := row.Scan(&d.Path, &d.ContentHash, &d.ItemCount, &d.Digest, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read digest for %s: %w", path, err)
	}
	return &d, nil
}

// Upsert inserts or replaces the digest row for d.Path.
func (s *Store) Upsert(d *FileDigest) error {
	_, err := s.db.Exec(
		`INSERT INTO digests (path, content_hash, item_count, digest, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			item_count   = excluded.item_count,
			digest       = excluded.digest,
			updated_at   = excluded.updated_at`,
		d.Path, d.ContentHash, d.ItemCount, d.Digest, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert digest for %s: %w", d.Path, err)
	}
	return nil
}

// Delete removes the digest row for a path. Deleting a missing row is
// not an error.
func (s *Store) Delete(path string) error {
	if _, err := s.db.Exec(`DELETE FROM digests WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete digest for %s: %w", path, err)
	}
	return nil
}

// List returns all stored digests ordered by path.
func (s *Store) List() ([]FileDigest, error) {
	rows, err := s.db.Query(
		`SELECT path, content_hash, item_count, digest, updated_at FROM digests ORDER BY path`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list digests: %w", err)
	}
	defer rows.Close()

	var digests []FileDigest
	for rows.Next() {
		var d FileDigest
		if err := rows.Scan(&d.Path, &d.ContentHash, &d.ItemCount, &d.Digest, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest row: %w", err)
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// RecordRun stores one completed run.
func (s *Store) RecordRun(run *Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, finished_at, files_seen, files_digested, items_found)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.FinishedAt, run.FilesSeen, run.FilesDigested, run.ItemsFound,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when the
// store has none.
func (s *Store) LatestRun() (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, finished_at, files_seen, files_digested, items_found
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	)

	var run Run
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.FilesSeen, &run.FilesDigested, &run.ItemsFound)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest run: %w", err)
	}
	return &run, nil
}
