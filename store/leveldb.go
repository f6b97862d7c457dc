package store

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is a Store backed by an on-disk LevelDB database. It keeps no
// index in memory; every entry lives in the database under its cache key.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens (creating if needed) a LevelDB database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Read(key string) (*Entry, bool, error) {
	b, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
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

func (l *LevelDB) Write(key string, entry *Entry) error {
	b, err := EncodeEntry(entry)
	if err != nil {
		return err
	}
	return l.db.Put([]byte(key), b, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
