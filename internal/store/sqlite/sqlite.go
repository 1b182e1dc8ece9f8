// Package sqlite provides the reference on-device persistence for the
// retrieval engine's four history sources, backed by a single SQLite
// database. Each source gets its own store type implementing the
// rag.Store contract, plus the write operations the capture layer and
// CLI use to populate history.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the shared SQLite handle and hands out per-source stores.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Keyword search and recency scans interleave from concurrent
	// retrievers; WAL avoids writer stalls blocking them.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Memories() *MemoryStore     { return &MemoryStore{db: d.db} }
func (d *DB) Clipboard() *ClipboardStore { return &ClipboardStore{db: d.db} }
func (d *DB) Activity() *ActivityStore   { return &ActivityStore{db: d.db} }
func (d *DB) Searches() *SearchStore     { return &SearchStore{db: d.db} }

// likePattern escapes LIKE wildcards in a keyword and wraps it for a
// contains match.
func likePattern(keyword string) string {
	escaped := ""
	for _, r := range keyword {
		switch r {
		case '%', '_', '\\':
			escaped += `\` + string(r)
		default:
			escaped += string(r)
		}
	}
	return "%" + escaped + "%"
}
