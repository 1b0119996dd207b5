package store

import (
	"sync"

	"github.com/multitimer/multitimer-go/pkg/timer"
)

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]timer.Record
	closed  bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(initial ...timer.Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]timer.Record)}
	for _, r := range initial {
		s.records[r.ID] = r
	}
	return s
}

// LoadAll returns every record.
func (s *MemoryStore) LoadAll() ([]timer.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make([]timer.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

// Save inserts or replaces rec.
func (s *MemoryStore) Save(rec timer.Record) error {
	if rec.ID == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.records[rec.ID] = rec
	return nil
}

// Delete removes rec. Unknown records are ignored.
func (s *MemoryStore) Delete(rec timer.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	delete(s.records, rec.ID)
	return nil
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
