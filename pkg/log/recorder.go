package log

import "sync"

// Recorder keeps events in memory. It backs the interactive front-end's
// recent-event view and is convenient in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRecorder returns a Recorder keeping at most limit events (0 = unbounded).
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Log stores the event, evicting the oldest one when full.
func (r *Recorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Events returns a copy of the stored events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Matching returns the stored events that match f.
func (r *Recorder) Matching(f Filter) []Event {
	var out []Event
	for _, e := range r.Events() {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of stored events in category c.
func (r *Recorder) Count(c Category) int {
	return len(r.Matching(Filter{Category: &c}))
}

// Compile-time interface satisfaction check.
var _ Logger = (*Recorder)(nil)
