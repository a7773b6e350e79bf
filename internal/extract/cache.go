package extract

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CacheStore persists extraction results across runs in a SQLite database.
// Entries are keyed by (path, scan mode, page window, backend set) and
// invalidated by file modification time.
type CacheStore struct {
	db *sql.DB
}

const cacheSchema = `CREATE TABLE IF NOT EXISTS extractions (
  path TEXT NOT NULL,
  mode TEXT NOT NULL,
  last_pages INTEGER NOT NULL,
  backends TEXT NOT NULL,
  mtime INTEGER NOT NULL,
  backend TEXT NOT NULL,
  count INTEGER NOT NULL,
  located INTEGER NOT NULL,
  note TEXT NOT NULL,
  rationale TEXT NOT NULL,
  text TEXT NOT NULL,
  PRIMARY KEY (path, mode, last_pages, backends)
)`

// OpenCacheStore opens (creating if needed) the cache database at path.
func OpenCacheStore(path string) (*CacheStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &CacheStore{db: db}, nil
}

// Close closes the underlying database.
func (s *CacheStore) Close() error {
	return s.db.Close()
}

// Get returns the cached result for a key if present and still valid for the
// file's current modification time.
func (s *CacheStore) Get(path, mode string, lastPages int, backends string) (*Result, bool) {
	mtime, err := fileMtime(path)
	if err != nil {
		return nil, false
	}

	var (
		r       Result
		cached  int64
		located int
	)
	row := s.db.QueryRow(
		`SELECT mtime, backend, count, located, note, rationale, text
		 FROM extractions WHERE path = ? AND mode = ? AND last_pages = ? AND backends = ?`,
		path, mode, lastPages, backends)
	err = row.Scan(&cached, &r.Backend, &r.Count, &located, &r.Note, &r.Estimate.Rationale, &r.Text)
	if err != nil {
		return nil, false
	}
	if cached != mtime {
		return nil, false
	}

	r.Located = located != 0
	r.Estimate.Count = r.Count
	r.Estimate.Policy = policyFromRationale(r.Estimate.Rationale)
	return &r, true
}

// Put stores a result for a key, replacing any stale entry.
func (s *CacheStore) Put(path, mode string, lastPages int, backends string, r *Result) error {
	mtime, err := fileMtime(path)
	if err != nil {
		return err
	}

	located := 0
	if r.Located {
		located = 1
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO extractions
		 (path, mode, last_pages, backends, mtime, backend, count, located, note, rationale, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		path, mode, lastPages, backends, mtime,
		r.Backend, r.Count, located, r.Note, r.Estimate.Rationale, r.Text)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func fileMtime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

// policyFromRationale recovers the policy label from a stored rationale
// string ("pattern=<label> counts={...}").
func policyFromRationale(rationale string) string {
	const prefix = "pattern="
	if len(rationale) <= len(prefix) || rationale[:len(prefix)] != prefix {
		return ""
	}
	rest := rationale[len(prefix):]
	for i := 0; i < len(rest); i++ {
		if rest[i] == ' ' {
			return rest[:i]
		}
	}
	return rest
}
