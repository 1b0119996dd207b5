package timer

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/multitimer/multitimer-go/pkg/alarm"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/timeutil"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Scheduler is the alarm scheduling a timer drives. *alarm.Scheduler
// satisfies it.
type Scheduler interface {
	Schedule(t alarm.Target)
	Cancel()
	Reset()
	PlaySound(name string)
}

// Config holds a timer's collaborators.
type Config struct {
	// Scheduler arms notifications and alarms. Required.
	Scheduler Scheduler

	// Clock drives ticks. Defaults to clock.Real.
	Clock clock.Clock

	// EventLogger receives state and lifecycle events. Optional.
	EventLogger log.Logger

	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Timer is one countdown.
type Timer struct {
	id        string
	dateAdded time.Time

	scheduler Scheduler
	clock     clock.Clock
	events    log.Logger
	logger    *slog.Logger

	mu sync.RWMutex

	label      string
	color      Color
	soundName  string
	configured int
	remaining  int
	length     int
	progress   float64
	playing    bool
	active     bool
	expired    bool
	closed     bool

	// Tick source; gen invalidates ticks from a replaced source.
	ticker clock.Timer
	gen    uint64

	// Set while inactive and playing.
	suspended   bool
	suspendedAt time.Time

	observers []func(Change)
}

// FromRecord creates a stopped timer from a persisted record. Missing
// fields get defaults and the configured length is clamped.
func FromRecord(rec Record, cfg Config) *Timer {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rec = rec.normalize(clk.Now())
	t := &Timer{
		id:         rec.ID,
		dateAdded:  rec.DateAdded,
		scheduler:  cfg.Scheduler,
		clock:      clk,
		events:     log.OrNoop(cfg.EventLogger),
		logger:     logger.With("timer_id", rec.ID),
		label:      rec.Label,
		color:      rec.Color,
		soundName:  rec.AlarmSoundName,
		configured: rec.ConfiguredSeconds,
		remaining:  rec.ConfiguredSeconds,
		length:     rec.ConfiguredSeconds,
		active:     true,
	}
	t.progress = t.computeProgress()
	return t
}

// ID returns the timer's immutable id.
func (t *Timer) ID() string { return t.id }

// DateAdded returns the creation time.
func (t *Timer) DateAdded() time.Time { return t.dateAdded }

// OnChange registers fn to be called after each mutating operation.
func (t *Timer) OnChange(fn func(Change)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// ToRecord returns the persisted fields.
func (t *Timer) ToRecord() Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Record{
		ID:                t.id,
		Label:             t.label,
		ConfiguredSeconds: t.configured,
		Color:             t.color,
		AlarmSoundName:    t.soundName,
		DateAdded:         t.dateAdded,
	}
}

// Snapshot returns a copy of the timer's fields.
func (t *Timer) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		ID:                t.id,
		Label:             t.label,
		ConfiguredSeconds: t.configured,
		RemainingSeconds:  t.remaining,
		LengthSeconds:     t.length,
		Progress:          t.progress,
		Playing:           t.playing,
		Active:            t.active,
		State:             t.stateLocked(),
		Color:             t.color,
		AlarmSoundName:    t.soundName,
		DateAdded:         t.dateAdded,
	}
}

// State returns the derived countdown state.
func (t *Timer) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stateLocked()
}

// IsPlaying reports whether the timer is counting down.
func (t *Timer) IsPlaying() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.playing
}

// RemainingSeconds returns the remaining time.
func (t *Timer) RemainingSeconds() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.remaining
}

// Progress returns the completed fraction in [0, 1].
func (t *Timer) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Start begins counting down. It does nothing for a zero-length timer or
// one already running. An expired timer is reset first.
func (t *Timer) Start() {
	t.mutate(ChangeCountdown, "start", func() bool {
		if t.configured == 0 || t.playing || t.closed {
			return false
		}
		if t.remaining == 0 {
			t.resetLocked()
		}
		t.expired = false
		t.startTickingLocked()
		t.scheduler.Schedule(t.targetLocked())
		t.playing = true
		if !t.active {
			t.suspended = true
			t.suspendedAt = t.clock.Now()
		}
		return true
	})
}

// Stop pauses the countdown and cancels its pending alarm.
func (t *Timer) Stop() {
	t.mutate(ChangeCountdown, "stop", func() bool {
		if t.configured == 0 {
			return false
		}
		t.catchUpLocked()
		t.stopLocked()
		return true
	})
}

// Reset stops the timer, silences its alarm and restores the configured
// length.
func (t *Timer) Reset() {
	t.mutate(ChangeCountdown, "reset", func() bool {
		t.resetLocked()
		return true
	})
}

// Tick advances the countdown by one second. Ticks are ignored while the
// application is suspended.
func (t *Timer) Tick() {
	t.mutate(ChangeCountdown, "tick", func() bool {
		if !t.active {
			return false
		}
		t.tickLocked()
		return true
	})
}

// Decrement is Tick.
func (t *Timer) Decrement() {
	t.Tick()
}

// SetTime sets the remaining time directly, clamped to the valid range.
// Reaching zero while running expires the timer.
func (t *Timer) SetTime(seconds int) {
	t.mutate(ChangeCountdown, "set_time", func() bool {
		t.setTimeLocked(seconds)
		return true
	})
}

// AddTime extends the current run. A running timer is rescheduled; an
// expired timer resumes counting down. Negative values count as zero.
func (t *Timer) AddTime(seconds int) {
	t.mutate(ChangeCountdown, "add_time", func() bool {
		if seconds < 0 {
			seconds = 0
		}
		t.catchUpLocked()
		t.length = timeutil.Clamp(t.length + seconds)
		t.remaining = timeutil.Clamp(t.remaining + seconds)

		switch {
		case t.expired && t.remaining > 0:
			t.scheduler.Reset()
			t.expired = false
			t.startTickingLocked()
			t.scheduler.Schedule(t.targetLocked())
			t.playing = true
			if !t.active {
				t.suspended = true
				t.suspendedAt = t.clock.Now()
			}
		case t.playing:
			t.scheduler.Schedule(t.targetLocked())
		}
		t.progress = t.computeProgress()
		return true
	})
}

// SubtractTime shortens the current run. Reaching zero cancels the pending
// alarm, plays the alarm sound immediately and expires the timer.
// Negative values count as zero.
func (t *Timer) SubtractTime(seconds int) {
	t.mutate(ChangeCountdown, "subtract_time", func() bool {
		if seconds < 0 {
			seconds = 0
		}
		t.catchUpLocked()
		had := t.remaining > 0
		t.length = timeutil.Clamp(t.length - seconds)
		t.remaining = timeutil.Clamp(t.remaining - seconds)

		switch {
		case t.remaining > 0:
			if t.playing {
				t.scheduler.Schedule(t.targetLocked())
			}
		case had:
			t.scheduler.Cancel()
			t.stopTickingLocked()
			t.playing = false
			t.suspended = false
			t.expired = true
			t.scheduler.PlaySound(t.soundName)
		}
		t.progress = t.computeProgress()
		return true
	})
}

// Set reconfigures the timer's length. A running timer is stopped first.
func (t *Timer) Set(seconds int) {
	t.mutate(ChangeConfig, "set", func() bool {
		if t.playing {
			t.stopLocked()
		}
		seconds = timeutil.Clamp(seconds)
		t.configured = seconds
		t.length = seconds
		t.remaining = seconds
		t.expired = false
		t.progress = t.computeProgress()
		return true
	})
}

// SetLabel changes the display label.
func (t *Timer) SetLabel(label string) {
	t.mutate(ChangeConfig, "label", func() bool {
		if t.label == label {
			return false
		}
		t.label = label
		return true
	})
}

// SetColor changes the color. Colors outside the palette are ignored.
func (t *Timer) SetColor(c Color) {
	t.mutate(ChangeConfig, "color", func() bool {
		if !c.Valid() || t.color == c {
			return false
		}
		t.color = c
		return true
	})
}

// SetAlarmSoundName changes the alarm sound. A running timer is
// rescheduled so its notification carries the new sound.
func (t *Timer) SetAlarmSoundName(name string) {
	t.mutate(ChangeConfig, "sound", func() bool {
		if name == "" || t.soundName == name {
			return false
		}
		t.soundName = name
		if t.playing {
			t.scheduler.Schedule(t.targetLocked())
		}
		return true
	})
}

// WillSuspend handles the application leaving the foreground. A running
// timer records the time and re-arms its alarm for the remaining time.
func (t *Timer) WillSuspend() {
	t.mutate(ChangeCountdown, "suspend", func() bool {
		if !t.active {
			return false
		}
		t.active = false
		if t.playing {
			t.suspended = true
			t.suspendedAt = t.clock.Now()
			t.scheduler.Schedule(t.targetLocked())
			t.logLifecycle(log.PhaseSuspend, 0)
		}
		return true
	})
}

// DidResume handles the application returning to the foreground. A
// running timer applies the suspended wall-clock time in one step. It
// returns the elapsed seconds applied.
func (t *Timer) DidResume() int {
	elapsed := 0
	t.mutate(ChangeCountdown, "resume", func() bool {
		if t.active {
			return false
		}
		t.active = true
		if t.playing && t.suspended {
			elapsed = t.elapsedLocked()
			t.setTimeLocked(t.remaining - elapsed)
			t.logLifecycle(log.PhaseResume, elapsed)
		}
		t.suspended = false
		return true
	})
	return elapsed
}

// Close stops the timer and tears down its alarm state. The timer cannot
// be started again.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.stopTickingLocked()
	t.playing = false
	t.suspended = false
	t.scheduler.Reset()
	t.observers = nil
}

// mutate runs fn under the lock and, if it reports a change, logs state
// transitions and notifies observers after unlocking.
func (t *Timer) mutate(kind ChangeKind, reason string, fn func() bool) {
	t.mu.Lock()
	old := t.stateLocked()
	if !fn() {
		t.mu.Unlock()
		return
	}
	state := t.stateLocked()
	change := Change{
		TimerID:          t.id,
		Kind:             kind,
		Reason:           reason,
		State:            state,
		RemainingSeconds: t.remaining,
	}
	if old != state || kind == ChangeConfig {
		t.events.Log(log.Event{
			Timestamp: t.clock.Now(),
			TimerID:   t.id,
			Category:  log.CategoryState,
			Label:     t.label,
			StateChange: &log.StateChangeEvent{
				OldState:         old.String(),
				NewState:         state.String(),
				Reason:           reason,
				RemainingSeconds: t.remaining,
			},
		})
	}
	observers := t.observers
	t.mu.Unlock()

	for _, fn := range observers {
		fn(change)
	}
}

func (t *Timer) stateLocked() State {
	switch {
	case t.playing:
		return Running
	case t.expired:
		return Expired
	case t.remaining == t.configured && t.length == t.configured:
		return Idle
	default:
		return Paused
	}
}

func (t *Timer) targetLocked() alarm.Target {
	return alarm.Target{
		TimerID:          t.id,
		Label:            t.label,
		RemainingSeconds: t.remaining,
		SoundName:        t.soundName,
	}
}

// computeProgress is 1 - remaining/length clamped to [0, 1], and 1 for a
// zero length.
func (t *Timer) computeProgress() float64 {
	if t.length == 0 {
		return 1
	}
	p := 1 - float64(t.remaining)/float64(t.length)
	return math.Min(1, math.Max(0, p))
}

func (t *Timer) startTickingLocked() {
	t.stopTickingLocked()
	gen := t.gen
	t.ticker = t.clock.Every(TickInterval, func() { t.onTick(gen) })
}

func (t *Timer) stopTickingLocked() {
	t.gen++
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

func (t *Timer) onTick(gen uint64) {
	t.mutate(ChangeCountdown, "tick", func() bool {
		if gen != t.gen || !t.active {
			return false
		}
		t.tickLocked()
		return true
	})
}

// stopLocked stops ticking and, unless the countdown reached zero,
// cancels the pending alarm.
func (t *Timer) stopLocked() {
	t.stopTickingLocked()
	if t.remaining > 0 {
		t.scheduler.Cancel()
	}
	t.playing = false
	t.suspended = false
}

// expireLocked stops a countdown that reached zero. The alarm state is
// left armed: the notification and fallback fire on their own.
func (t *Timer) expireLocked() {
	t.stopLocked()
	t.expired = true
}

func (t *Timer) resetLocked() {
	t.stopTickingLocked()
	t.playing = false
	t.suspended = false
	t.scheduler.Reset()
	t.remaining = t.configured
	t.length = t.configured
	t.expired = false
	t.progress = t.computeProgress()
}

func (t *Timer) tickLocked() {
	if t.configured == 0 {
		if t.length > 0 {
			t.progress = 0
		} else {
			t.progress = 1
		}
		return
	}
	if t.remaining <= 0 {
		if t.playing {
			t.expireLocked()
		}
		t.progress = t.computeProgress()
		return
	}
	if t.playing {
		t.remaining--
		if t.remaining == 0 {
			t.expireLocked()
		}
	}
	t.progress = t.computeProgress()
}

func (t *Timer) setTimeLocked(seconds int) {
	t.remaining = timeutil.Clamp(seconds)
	switch {
	case t.remaining == 0 && t.playing:
		t.expireLocked()
	case t.remaining > 0:
		t.expired = false
	}
	t.progress = t.computeProgress()
}

// catchUpLocked applies time suspended so far to a running timer that is
// edited while the application is in the background.
func (t *Timer) catchUpLocked() {
	if t.active || !t.playing || !t.suspended {
		return
	}
	elapsed := t.elapsedLocked()
	t.suspendedAt = t.suspendedAt.Add(time.Duration(elapsed) * time.Second)
	t.setTimeLocked(t.remaining - elapsed)
}

func (t *Timer) elapsedLocked() int {
	elapsed := int(math.Round(t.clock.Now().Sub(t.suspendedAt).Seconds()))
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (t *Timer) logLifecycle(phase log.LifecyclePhase, elapsed int) {
	t.logger.Debug("timer lifecycle", "phase", phase.String(), "elapsed", elapsed, "remaining", t.remaining)
	t.events.Log(log.Event{
		Timestamp: t.clock.Now(),
		TimerID:   t.id,
		Category:  log.CategoryLifecycle,
		Label:     t.label,
		Lifecycle: &log.LifecycleEvent{
			Phase:            phase,
			ElapsedSeconds:   elapsed,
			RemainingSeconds: t.remaining,
		},
	})
}

// Compile-time interface satisfaction check.
var _ Scheduler = (*alarm.Scheduler)(nil)
