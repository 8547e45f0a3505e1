// Package storage persists comparison sessions for the web UI in SQLite.
// A session remembers which uploaded files produced a comparison so export
// links keep working without re-uploading; parsed records themselves are
// never stored.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Session records one comparison run between two uploaded files.
type Session struct {
	ID           string    `json:"id"`
	FilenameA    string    `json:"filename_a"`
	FilenameB    string    `json:"filename_b"`
	PathA        string    `json:"path_a"`
	PathB        string    `json:"path_b"`
	OverlapCount int       `json:"overlap_count"`
	UniqueACount int       `json:"unique_a_count"`
	UniqueBCount int       `json:"unique_b_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open opens or creates a session database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			filename_a TEXT NOT NULL,
			filename_b TEXT NOT NULL,
			path_a TEXT NOT NULL,
			path_b TEXT NOT NULL,
			overlap_count INTEGER NOT NULL,
			unique_a_count INTEGER NOT NULL,
			unique_b_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Put stores a session, replacing any existing row with the same id.
func (d *DB) Put(s Session) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO sessions
			(id, filename_a, filename_b, path_a, path_b,
			 overlap_count, unique_a_count, unique_b_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.FilenameA, s.FilenameB, s.PathA, s.PathB,
		s.OverlapCount, s.UniqueACount, s.UniqueBCount,
		s.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Get returns the session with the given id, or nil if it doesn't exist.
func (d *DB) Get(id string) (*Session, error) {
	row := d.db.QueryRow(`
		SELECT id, filename_a, filename_b, path_a, path_b,
		       overlap_count, unique_a_count, unique_b_count, created_at
		FROM sessions WHERE id = ?`, id)

	var s Session
	var created string
	err := row.Scan(&s.ID, &s.FilenameA, &s.FilenameB, &s.PathA, &s.PathB,
		&s.OverlapCount, &s.UniqueACount, &s.UniqueBCount, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	s.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parsing session timestamp: %w", err)
	}
	return &s, nil
}

// Prune removes sessions created before the cutoff and returns the upload
// paths of the removed rows so the caller can delete the files.
func (d *DB) Prune(cutoff time.Time) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT path_a, path_b FROM sessions WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing stale sessions: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("scanning stale session: %w", err)
		}
		paths = append(paths, a, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing stale sessions: %w", err)
	}

	if _, err := d.db.Exec(`DELETE FROM sessions WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("pruning sessions: %w", err)
	}
	return paths, nil
}

// Count returns the number of stored sessions.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}
