package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/multitimer/multitimer-go/pkg/alarm"
	"github.com/multitimer/multitimer-go/pkg/background"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/metrics"
	"github.com/multitimer/multitimer-go/pkg/notify"
	"github.com/multitimer/multitimer-go/pkg/timer"
)

// Manager errors.
var (
	// ErrTimerNotFound is returned for an id not in the collection.
	ErrTimerNotFound = errors.New("timer not found")

	// ErrClosed is returned by operations on a closed manager.
	ErrClosed = errors.New("manager closed")
)

// DefaultLabelPrefix starts every generated label.
const DefaultLabelPrefix = "Timer"

// Store persists timer records.
type Store interface {
	LoadAll() ([]timer.Record, error)
	Save(rec timer.Record) error
	Delete(rec timer.Record) error
}

// Config holds the collaborators shared by all timers.
type Config struct {
	// Store persists records. Defaults to no persistence.
	Store Store

	// Notifier posts wake-up notifications. Required.
	Notifier notify.Service

	// Player plays alarm sounds. Required.
	Player alarm.Player

	// Background grants extensions for short countdowns. Optional.
	Background background.Service

	// DefaultSound is the alarm sound of new timers.
	DefaultSound string

	// Clock drives ticks and alarms. Defaults to clock.Real.
	Clock clock.Clock

	// EventLogger receives timer events. Optional.
	EventLogger log.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics

	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Manager is the timer collection.
type Manager struct {
	store        Store
	notifier     notify.Service
	player       alarm.Player
	background   background.Service
	defaultSound string
	clock        clock.Clock
	events       log.Logger
	metrics      *metrics.Metrics
	logger       *slog.Logger

	mu     sync.RWMutex
	timers map[string]*timer.Timer
	closed bool
}

// NewManager creates an empty collection.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		store:        cfg.Store,
		notifier:     cfg.Notifier,
		player:       cfg.Player,
		background:   cfg.Background,
		defaultSound: cfg.DefaultSound,
		clock:        cfg.Clock,
		events:       log.OrNoop(cfg.EventLogger),
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		timers:       make(map[string]*timer.Timer),
	}
	if m.store == nil {
		m.store = nopStore{}
	}
	if m.clock == nil {
		m.clock = clock.Real{}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.defaultSound == "" {
		m.defaultSound = timer.DefaultAlarmSound
	}
	return m
}

// Load restores persisted timers, stopped. Records already in the
// collection are skipped. It returns the number of timers added.
func (m *Manager) Load() (int, error) {
	recs, err := m.store.LoadAll()
	if err != nil {
		m.storeFailed(metrics.OpLoad, timer.Record{}, err)
		return 0, fmt.Errorf("load timers: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, ErrClosed
	}
	added := 0
	for _, rec := range recs {
		if _, ok := m.timers[rec.ID]; ok {
			continue
		}
		m.addLocked(rec)
		added++
	}
	m.mu.Unlock()

	m.logger.Info("timers loaded", "count", added)
	m.updateGauges()
	return added, nil
}

// AddTimer creates, persists and starts a timer of the given length. Its
// label is "Timer {n+1}" and its color palette[n], where n is the highest
// number ending an existing label.
func (m *Manager) AddTimer(seconds int) (*timer.Timer, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	n := m.highestLabelNumberLocked()
	rec := timer.NewRecord(fmt.Sprintf("%s %d", DefaultLabelPrefix, n+1), seconds, timer.PaletteColor(n), m.clock.Now())
	rec.AlarmSoundName = m.defaultSound
	t := m.addLocked(rec)
	m.mu.Unlock()

	m.save(rec)
	t.Start()
	m.updateGauges()

	m.logger.Info("timer added", "timer_id", rec.ID, "label", rec.Label, "seconds", rec.ConfiguredSeconds)
	return t, nil
}

// DeleteTimer cancels the timer's alarm, stops any alarm sound, removes it
// and deletes its record.
func (m *Manager) DeleteTimer(id string) error {
	m.mu.Lock()
	t, ok := m.timers[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTimerNotFound, id)
	}
	delete(m.timers, id)
	m.mu.Unlock()

	rec := t.ToRecord()
	t.Close()
	if err := m.store.Delete(rec); err != nil {
		m.storeFailed(metrics.OpDelete, rec, err)
	}
	m.updateGauges()

	m.logger.Info("timer deleted", "timer_id", id, "label", rec.Label)
	return nil
}

// Timer returns the timer with id.
func (m *Manager) Timer(id string) (*timer.Timer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.timers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTimerNotFound, id)
	}
	return t, nil
}

// Len returns the number of timers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.timers)
}

// ListTimers returns the timers ordered by creation time, then label,
// then configured length. With activeOnly, only running timers are
// returned.
func (m *Manager) ListTimers(activeOnly bool) []*timer.Timer {
	m.mu.RLock()
	type entry struct {
		t *timer.Timer
		s timer.Snapshot
	}
	entries := make([]entry, 0, len(m.timers))
	for _, t := range m.timers {
		s := t.Snapshot()
		if activeOnly && !s.Playing {
			continue
		}
		entries = append(entries, entry{t: t, s: s})
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].s, entries[j].s
		if !a.DateAdded.Equal(b.DateAdded) {
			return a.DateAdded.Before(b.DateAdded)
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if a.ConfiguredSeconds != b.ConfiguredSeconds {
			return a.ConfiguredSeconds < b.ConfiguredSeconds
		}
		return a.ID < b.ID
	})

	out := make([]*timer.Timer, len(entries))
	for i, e := range entries {
		out[i] = e.t
	}
	return out
}

// BulkStart starts each named timer. Unknown ids do not stop the others;
// they are reported together in the returned error.
func (m *Manager) BulkStart(ids ...string) error {
	return m.each(ids, (*timer.Timer).Start)
}

// BulkStop stops each named timer, like BulkStart.
func (m *Manager) BulkStop(ids ...string) error {
	return m.each(ids, (*timer.Timer).Stop)
}

// WillSuspend tells every timer the application is leaving the
// foreground.
func (m *Manager) WillSuspend() {
	timers := m.all()
	for _, t := range timers {
		t.WillSuspend()
	}
	m.logger.Info("application suspended", "timers", len(timers))
}

// DidResume tells every timer the application is back in the foreground.
func (m *Manager) DidResume() {
	timers := m.all()
	for _, t := range timers {
		if elapsed := t.DidResume(); elapsed > 0 {
			m.metrics.Reconciled(elapsed)
		}
	}
	m.updateGauges()
	m.logger.Info("application resumed", "timers", len(timers))
}

// Close tears down every timer. The store is not closed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	timers := make([]*timer.Timer, 0, len(m.timers))
	for _, t := range m.timers {
		timers = append(timers, t)
	}
	m.mu.Unlock()

	for _, t := range timers {
		t.Close()
	}
}

// addLocked creates a timer for rec and registers it. Caller holds mu.
func (m *Manager) addLocked(rec timer.Record) *timer.Timer {
	sched := alarm.New(alarm.Config{
		Notifier:    m.notifier,
		Player:      m.player,
		Background:  m.background,
		Clock:       m.clock,
		EventLogger: m.events,
		Metrics:     m.metrics,
		Logger:      m.logger,
	})
	t := timer.FromRecord(rec, timer.Config{
		Scheduler:   sched,
		Clock:       m.clock,
		EventLogger: m.events,
		Logger:      m.logger,
	})
	t.OnChange(func(c timer.Change) { m.onChange(t, c) })
	m.timers[t.ID()] = t
	return t
}

func (m *Manager) onChange(t *timer.Timer, c timer.Change) {
	if c.Kind == timer.ChangeConfig {
		m.mu.RLock()
		_, member := m.timers[c.TimerID]
		m.mu.RUnlock()
		if member {
			m.save(t.ToRecord())
		}
	}
	if c.Reason != "tick" || c.State != timer.Running {
		m.updateGauges()
	}
}

func (m *Manager) each(ids []string, fn func(*timer.Timer)) error {
	var errs []error
	for _, id := range ids {
		t, err := m.Timer(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fn(t)
	}
	return errors.Join(errs...)
}

func (m *Manager) all() []*timer.Timer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*timer.Timer, 0, len(m.timers))
	for _, t := range m.timers {
		out = append(out, t)
	}
	return out
}

func (m *Manager) save(rec timer.Record) {
	if err := m.store.Save(rec); err != nil {
		m.storeFailed(metrics.OpSave, rec, err)
	}
}

func (m *Manager) storeFailed(op string, rec timer.Record, err error) {
	m.logger.Error("store operation failed", "op", op, "timer_id", rec.ID, "error", err)
	m.metrics.StoreError(op)
	m.events.Log(log.Event{
		Timestamp: m.clock.Now(),
		TimerID:   rec.ID,
		Category:  log.CategoryError,
		Label:     rec.Label,
		Error: &log.ErrorEventData{
			Component: "store",
			Message:   err.Error(),
			Context:   op,
		},
	})
}

func (m *Manager) updateGauges() {
	if m.metrics == nil {
		return
	}
	timers := m.all()
	running := 0
	for _, t := range timers {
		if t.IsPlaying() {
			running++
		}
	}
	m.metrics.SetTimers(len(timers), running)
}

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// highestLabelNumberLocked returns the largest number ending any label,
// or 0. Caller holds mu.
func (m *Manager) highestLabelNumberLocked() int {
	highest := 0
	for _, t := range m.timers {
		if n, ok := labelNumber(t.Snapshot().Label); ok && n > highest {
			highest = n
		}
	}
	return highest
}

func labelNumber(label string) (int, bool) {
	match := trailingNumber.FindStringSubmatch(label)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n == math.MaxInt {
		return 0, false
	}
	return n, true
}

type nopStore struct{}

func (nopStore) LoadAll() ([]timer.Record, error) { return nil, nil }
func (nopStore) Save(timer.Record) error          { return nil }
func (nopStore) Delete(timer.Record) error        { return nil }
