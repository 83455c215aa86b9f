// Package cache provides an optional, on-disk acceleration cache for
// archive page indexing. It is purely a startup-time optimization: the
// loader consults it before parsing a zip's central directory and upserts
// the result afterward. Nothing at request-serving time touches this
// package.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/banux/manga-server/internal/library"
)

const currentSchemaVersion = 1

// Index is an archive-index cache backed by a single-table SQLite database.
type Index struct {
	db *sql.DB
}

// Open creates or opens the cache database at path and applies the schema.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive index cache %q: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure archive index cache: %w", err)
	}
	idx := &Index{db: db}
	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive index cache: %w", err)
	}
	return idx, nil
}

// migrate applies the (currently single-generation) schema. Structured the
// same way as a multi-version migration table so a future schema bump only
// needs a new case, not a rewrite of the wiring.
func (idx *Index) migrate() error {
	var version int
	if err := idx.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version >= currentSchemaVersion {
		return nil
	}
	if _, err := idx.db.Exec(`
CREATE TABLE IF NOT EXISTS archive_index (
    path    TEXT PRIMARY KEY,
    size    INTEGER NOT NULL,
    mtime   INTEGER NOT NULL,
    entries BLOB NOT NULL
);
`); err != nil {
		return err
	}
	_, err := idx.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, currentSchemaVersion))
	return err
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Get returns the cached entries for path if present and still fresh
// (matching size and mtime exactly).
func (idx *Index) Get(path string, size int64, mtime time.Time) ([]library.ArchiveEntry, bool) {
	var dbSize, dbMtime int64
	var blob []byte
	row := idx.db.QueryRow(`SELECT size, mtime, entries FROM archive_index WHERE path = ?`, path)
	if err := row.Scan(&dbSize, &dbMtime, &blob); err != nil {
		return nil, false
	}
	if dbSize != size || dbMtime != mtime.UnixNano() {
		return nil, false
	}
	var entries []library.ArchiveEntry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Put upserts the indexed entries for path.
func (idx *Index) Put(path string, size int64, mtime time.Time, entries []library.ArchiveEntry) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = idx.db.Exec(`
INSERT INTO archive_index (path, size, mtime, entries) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET size = excluded.size, mtime = excluded.mtime, entries = excluded.entries
`, path, size, mtime.UnixNano(), blob)
	return err
}
