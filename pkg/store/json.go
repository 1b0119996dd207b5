package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/multitimer/multitimer-go/pkg/timer"
)

// FileVersion is the current version of the JSON file format.
const FileVersion = 1

// ErrUnsupportedVersion is returned for files written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported store file version")

// fileState is the JSON file layout.
type fileState struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the file was last written.
	SavedAt time.Time `json:"saved_at"`

	// Timers holds one record per timer.
	Timers []timer.Record `json:"timers"`
}

// JSONStore keeps all records in a single JSON file. Every write rewrites
// the file through a temporary file and a rename.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// NewJSONStore creates a store backed by path. The file is created on the
// first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file path.
func (s *JSONStore) Path() string {
	return s.path
}

// LoadAll returns every record. A missing file holds no records.
func (s *JSONStore) LoadAll() ([]timer.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	state, err := s.read()
	if err != nil {
		return nil, err
	}
	sortRecords(state.Timers)
	return state.Timers, nil
}

// Save inserts or replaces rec.
func (s *JSONStore) Save(rec timer.Record) error {
	if rec.ID == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	state, err := s.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range state.Timers {
		if state.Timers[i].ID == rec.ID {
			state.Timers[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		state.Timers = append(state.Timers, rec)
	}
	return s.write(state)
}

// Delete removes rec. Unknown records are ignored.
func (s *JSONStore) Delete(rec timer.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	state, err := s.read()
	if err != nil {
		return err
	}

	kept := state.Timers[:0]
	for _, r := range state.Timers {
		if r.ID != rec.ID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(state.Timers) {
		return nil
	}
	state.Timers = kept
	return s.write(state)
}

// Clear removes the file.
func (s *JSONStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close marks the store closed.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// read loads the file. Caller holds mu.
func (s *JSONStore) read() (*fileState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileState{Version: FileVersion}, nil
	}
	if err != nil {
		return nil, err
	}

	state := &fileState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if state.Version > FileVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}
	return state, nil
}

// write replaces the file. Caller holds mu.
func (s *JSONStore) write(state *fileState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = FileVersion
	state.SavedAt = time.Now().UTC()
	if state.Timers == nil {
		state.Timers = []timer.Record{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
