package store

import (
	"database/sql"
	"errors"
	"sync"

	_ "github.com/glebarez/go-sqlite"
)

// SQLite is a Store backed by a single-file SQLite database.
type SQLite struct {
	db *sql.DB
	// sqlite allows one writer at a time; serialize writes instead of
	// bubbling SQLITE_BUSY up to the cache.
	writeMutex sync.Mutex
}

// NewSQLite opens (creating if needed) the cache table in the given
// database file. An empty filename opens a shared in-memory database.
func NewSQLite(filename string) (*SQLite, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			received_at INTEGER,
			bytes BLOB
		)`,
		"CREATE INDEX IF NOT EXISTS received_at_idx ON cache (received_at)",
		"PRAGMA journal_mode=WAL",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Read(key string) (*Entry, bool, error) {
	var b []byte
	err := s.db.QueryRow("SELECT bytes FROM cache WHERE key = ?", key).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	entry, err := DecodeEntry(b)
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (s *SQLite) Write(key string, entry *Entry) error {
	b, err := EncodeEntry(entry)
	if err != nil {
		return err
	}
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO cache (key, received_at, bytes) VALUES (?, ?, ?)",
		key, entry.ReceivedAt.Unix(), b,
	)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
