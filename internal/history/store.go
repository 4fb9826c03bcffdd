// Package history keeps a local SQLite index of saved snapshots so the CLI
// can list and prune them without scanning the filesystem.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded snapshot save.
type Entry struct {
	ID           int64
	Path         string
	GitRef       string
	GitSha       string
	TSConfigPath string
	CreatedAt    string
}

// Store is a snapshot history index backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	git_ref TEXT NOT NULL DEFAULT '',
	git_sha TEXT NOT NULL DEFAULT '',
	tsconfig_path TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
`

func createSchema(db *sql.DB) error {
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}
	return nil
}

// Record inserts one saved snapshot into the index and returns its row id.
// An empty CreatedAt is stamped with the current time.
func (s *Store) Record(e Entry) (int64, error) {
	createdAt := e.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	result, err := s.db.Exec(
		`INSERT INTO snapshots (path, git_ref, git_sha, tsconfig_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Path, e.GitRef, e.GitSha, e.TSConfigPath, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("recording snapshot: %w", err)
	}
	return result.LastInsertId()
}

// List returns all recorded snapshots, newest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, path, git_ref, git_sha, tsconfig_path, created_at FROM snapshots ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.GitRef, &e.GitSha, &e.TSConfigPath, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep entries from the index and returns
// the file paths of the pruned entries. The files themselves are the
// caller's to remove.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must be non-negative, got %d", keep)
	}

	rows, err := s.db.Query(
		`SELECT id, path FROM snapshots ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?`,
		keep,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting prune candidates: %w", err)
	}
	defer rows.Close()

	var ids []int64
	var paths []string
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("scanning prune row: %w", err)
		}
		ids = append(ids, id)
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("pruning snapshot %d: %w", id, err)
		}
	}

	return paths, nil
}
