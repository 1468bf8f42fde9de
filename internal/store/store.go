// Package store handles SQLite persistence of the content library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/furitype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no library entry matches.
var ErrNotFound = errors.New("content not found")

// Store wraps SQLite access for library entries.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contents (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			path TEXT NOT NULL,
			added_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_contents_added_at ON contents(added_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddContent stores an entry. An entry with the same title is replaced and
// keeps its id.
func (s *Store) AddContent(ctx context.Context, entry model.LibraryEntry) (int64, error) {
	if entry.Title == "" {
		return 0, fmt.Errorf("content title is empty")
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO contents (title, source, path, added_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET source = excluded.source, path = excluded.path, added_at = excluded.added_at
		 RETURNING id`,
		entry.Title,
		entry.Source,
		entry.Path,
		entry.AddedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListContents returns all entries in the order they were added.
func (s *Store) ListContents(ctx context.Context) ([]model.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, source, path, added_at FROM contents ORDER BY added_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LibraryEntry
	for rows.Next() {
		var entry model.LibraryEntry
		var addedAt string
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Source, &entry.Path, &addedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, addedAt)
		if err != nil {
			return nil, err
		}
		entry.AddedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Titles returns the titles of all entries in the order they were added.
func (s *Store) Titles(ctx context.Context) ([]string, error) {
	entries, err := s.ListContents(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(entries))
	for i, entry := range entries {
		titles[i] = entry.Title
	}
	return titles, nil
}

// RemoveContent deletes the entry with the given title.
func (s *Store) RemoveContent(ctx context.Context, title string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE title = ?`, title)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return nil
}
