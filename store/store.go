// Package store caches compiled Kitten images in a SQLite database,
// deduplicated by content hash.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested image doesn't exist.
var ErrNotFound = errors.New("image not found")

// Store is a content-addressed image cache.
type Store struct {
	db *sql.DB
}

// Entry describes one cached image.
type Entry struct {
	ID        string
	Hash      string
	Project   string
	CreatedAt time.Time
	Size      int
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		project TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating images table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the content hash used to deduplicate images.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Put stores an image for a project and returns its id. Storing bytes that
// are already cached returns the existing id without writing.
func (s *Store) Put(project string, data []byte) (string, error) {
	hash := Hash(data)

	var id string
	err := s.db.QueryRow("SELECT id FROM images WHERE hash = ?", hash).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up image by hash: %w", err)
	}

	id = uuid.New().String()
	_, err = s.db.Exec(
		"INSERT INTO images (id, hash, project, created_at, data) VALUES (?, ?, ?, ?, ?)",
		id, hash, project, time.Now().Unix(), data,
	)
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}
	return id, nil
}

// Get returns the image bytes for an id.
func (s *Store) Get(id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM images WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", id, err)
	}
	return data, nil
}

// GetByHash returns the image bytes for a content hash.
func (s *Store) GetByHash(hash string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM images WHERE hash = ?", hash).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading image by hash: %w", err)
	}
	return data, nil
}

// List returns all cached images, newest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, hash, project, created_at, length(data) FROM images ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Hash, &e.Project, &created, &e.Size); err != nil {
			return nil, fmt.Errorf("scanning image row: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a cached image.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting image %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune removes every cached image for a project except the newest one.
// It returns the number of images removed.
func (s *Store) Prune(project string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM images WHERE project = ? AND id NOT IN (
		SELECT id FROM images WHERE project = ? ORDER BY created_at DESC, id LIMIT 1
	)`, project, project)
	if err != nil {
		return 0, fmt.Errorf("pruning images for %s: %w", project, err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
