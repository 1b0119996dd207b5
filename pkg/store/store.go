package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/multitimer/multitimer-go/pkg/timer"
)

// Store errors.
var (
	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("store closed")

	// ErrUnknownKind is returned by Open for an unsupported backend name.
	ErrUnknownKind = errors.New("unknown store kind")

	// ErrInvalidRecord is returned when saving a record without an id.
	ErrInvalidRecord = errors.New("record has no id")
)

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// File names used inside the data directory.
const (
	JSONFileName   = "timers.json"
	SQLiteFileName = "timers.db"
)

// Backend is implemented by every store.
type Backend interface {
	LoadAll() ([]timer.Record, error)
	Save(rec timer.Record) error
	Delete(rec timer.Record) error
	Close() error
}

// Open creates the backend named kind with its files under dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindJSON:
		return NewJSONStore(filepath.Join(dataDir, JSONFileName)), nil
	case KindSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, SQLiteFileName))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// sortRecords orders records by creation time, then label, then id.
func sortRecords(recs []timer.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.DateAdded.Equal(b.DateAdded) {
			return a.DateAdded.Before(b.DateAdded)
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.ID < b.ID
	})
}
