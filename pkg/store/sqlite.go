package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/multitimer/multitimer-go/pkg/timer"
)

// SQLiteStore persists records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex

	closed bool
}

// NewSQLiteStore opens or creates the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database is private to its connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA journal_mode = WAL;`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS timers (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		configured_seconds INTEGER NOT NULL DEFAULT 0,
		color TEXT NOT NULL DEFAULT '',
		alarm_sound_name TEXT NOT NULL DEFAULT '',
		date_added DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timers_date_added ON timers(date_added);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadAll returns every record ordered by creation time.
func (s *SQLiteStore) LoadAll() ([]timer.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, label, configured_seconds, color, alarm_sound_name, date_added
		FROM timers
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []timer.Record
	for rows.Next() {
		var rec timer.Record
		var color string
		var added time.Time
		if err := rows.Scan(&rec.ID, &rec.Label, &rec.ConfiguredSeconds, &color, &rec.AlarmSoundName, &added); err != nil {
			return nil, err
		}
		rec.Color = timer.Color(color)
		rec.DateAdded = added.UTC()
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortRecords(recs)
	return recs, nil
}

// Save inserts or replaces rec.
func (s *SQLiteStore) Save(rec timer.Record) error {
	if rec.ID == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO timers (id, label, configured_seconds, color, alarm_sound_name, date_added)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			configured_seconds = excluded.configured_seconds,
			color = excluded.color,
			alarm_sound_name = excluded.alarm_sound_name,
			date_added = excluded.date_added
	`, rec.ID, rec.Label, rec.ConfiguredSeconds, string(rec.Color), rec.AlarmSoundName, rec.DateAdded.UTC())

	return err
}

// Delete removes rec. Unknown records are ignored.
func (s *SQLiteStore) Delete(rec timer.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`DELETE FROM timers WHERE id = ?`, rec.ID)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
