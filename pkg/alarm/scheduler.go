package alarm

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/multitimer/multitimer-go/pkg/background"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/metrics"
	"github.com/multitimer/multitimer-go/pkg/notify"
)

// MaxBackgroundTime is the remaining time below which the notification is
// silent and a background extension is requested.
const MaxBackgroundTime = 30 * time.Second

// NotificationBody is the text of every alarm notification.
const NotificationBody = "Timer finished"

// Target is the part of a timer the scheduler needs.
type Target struct {
	TimerID          string
	Label            string
	RemainingSeconds int
	SoundName        string
}

// Player plays alarm sounds. *sound.Player satisfies it.
type Player interface {
	Play(name string) error
	Stop()
}

// Config holds the collaborators of a Scheduler.
type Config struct {
	// Notifier posts wake-up notifications. Required.
	Notifier notify.Service

	// Player plays the fallback and manual alarms. Required.
	Player Player

	// Background grants extensions for short countdowns. Optional.
	Background background.Service

	// Clock drives the fallback delay. Defaults to clock.Real.
	Clock clock.Clock

	// EventLogger receives schedule and alarm events. Optional.
	EventLogger log.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics

	// Logger is the operational logger. Defaults to slog.Default().
	Logger *slog.Logger

	// NewID generates notification ids. Defaults to uuid.NewString.
	NewID func() string
}

// Scheduler manages the alarm state of one timer.
type Scheduler struct {
	notifier   notify.Service
	player     Player
	background background.Service
	clock      clock.Clock
	events     log.Logger
	metrics    *metrics.Metrics
	logger     *slog.Logger
	newID      func() string

	mu        sync.Mutex
	target    Target
	pendingID string
	fallback  clock.Timer
	gen       uint64
	extension *background.Extension
}

// New creates a Scheduler.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		notifier:   cfg.Notifier,
		player:     cfg.Player,
		background: cfg.Background,
		clock:      cfg.Clock,
		events:     log.OrNoop(cfg.EventLogger),
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		newID:      cfg.NewID,
	}
	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Schedule replaces any pending alarm state with a notification and a
// fallback delay for t.RemainingSeconds. Nothing is armed when no time
// remains.
func (s *Scheduler) Schedule(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.target = t
	if t.RemainingSeconds <= 0 {
		return
	}

	logger := s.logger.With("timer_id", t.TimerID)
	s.notifier.RequestPermission(func(granted bool, err error) {
		switch {
		case err != nil:
			logger.Warn("notification permission request failed", "error", err)
		case !granted:
			logger.Warn("notification permission not granted")
		}
	})

	delay := time.Duration(t.RemainingSeconds) * time.Second
	short := delay < MaxBackgroundTime

	req := notify.Request{
		ID:            s.newID(),
		CorrelationID: t.TimerID,
		Title:         t.Label,
		Body:          NotificationBody,
		FireAfter:     delay,
	}
	if !short {
		req.Sound = t.SoundName
	}
	if err := s.notifier.Schedule(req); err != nil {
		logger.Warn("notification not scheduled", "error", err)
		s.metrics.NotificationError()
		s.logError(t, "notify", err, "schedule")
	} else {
		s.pendingID = req.ID
		s.metrics.NotificationScheduled(req.Silent())
	}

	if short && s.background != nil {
		s.extension = background.Begin(s.background, "alarm "+t.TimerID, func() {
			logger.Debug("background extension expired")
		})
		s.metrics.BackgroundExtension(s.extension != nil)
	}

	s.gen++
	gen := s.gen
	s.fallback = s.clock.AfterFunc(delay, func() { s.fire(gen) })

	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		TimerID:   t.TimerID,
		Category:  log.CategorySchedule,
		Label:     t.Label,
		Schedule: &log.ScheduleEvent{
			Action:           log.ScheduleActionScheduled,
			NotificationID:   s.pendingID,
			FireAfterSeconds: t.RemainingSeconds,
			Silent:           req.Silent(),
			Extension:        s.extension != nil,
		},
	})
}

// Cancel removes the pending notification and fallback and releases any
// background extension. It is safe to call when nothing is pending.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Reset cancels and stops any playing alarm sound.
func (s *Scheduler) Reset() {
	s.Cancel()
	s.player.Stop()
}

// PlaySound plays the named alarm immediately.
func (s *Scheduler) PlaySound(name string) {
	s.mu.Lock()
	t := s.target
	s.mu.Unlock()

	s.play(t, name, log.AlarmTriggerManual)
}

// PendingNotificationID returns the id of the pending notification.
func (s *Scheduler) PendingNotificationID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingID, s.pendingID != ""
}

// FallbackArmed reports whether a fallback delay is outstanding.
func (s *Scheduler) FallbackArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback != nil
}

// HoldsExtension reports whether a background extension is held.
func (s *Scheduler) HoldsExtension() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extension != nil && !s.extension.Ended()
}

// cancelLocked clears all pending state. Caller holds mu.
func (s *Scheduler) cancelLocked() {
	if s.pendingID != "" {
		id := s.pendingID
		s.pendingID = ""
		s.notifier.Cancel(id)
		s.metrics.NotificationCancelled()
		s.events.Log(log.Event{
			Timestamp: s.clock.Now(),
			TimerID:   s.target.TimerID,
			Category:  log.CategorySchedule,
			Label:     s.target.Label,
			Schedule: &log.ScheduleEvent{
				Action:         log.ScheduleActionCancelled,
				NotificationID: id,
			},
		})
	}
	if s.fallback != nil {
		s.fallback.Stop()
		s.fallback = nil
	}
	s.gen++
	if s.extension != nil {
		s.extension.End()
		s.extension = nil
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.fallback == nil {
		s.mu.Unlock()
		return
	}
	s.fallback = nil
	ext := s.extension
	s.extension = nil
	t := s.target
	s.mu.Unlock()

	s.play(t, t.SoundName, log.AlarmTriggerFallback)
	ext.End()
}

func (s *Scheduler) play(t Target, name string, trigger log.AlarmTrigger) {
	if err := s.player.Play(name); err != nil {
		s.logger.Warn("alarm sound failed", "timer_id", t.TimerID, "sound", name, "error", err)
		s.logError(t, "sound", err, "play")
		return
	}

	label := metrics.TriggerManual
	if trigger == log.AlarmTriggerFallback {
		label = metrics.TriggerFallback
	}
	s.metrics.AlarmPlayed(label)
	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		TimerID:   t.TimerID,
		Category:  log.CategoryAlarm,
		Label:     t.Label,
		Alarm:     &log.AlarmEvent{Sound: name, Trigger: trigger},
	})
}

func (s *Scheduler) logError(t Target, component string, err error, op string) {
	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		TimerID:   t.TimerID,
		Category:  log.CategoryError,
		Label:     t.Label,
		Error: &log.ErrorEventData{
			Component: component,
			Message:   err.Error(),
			Context:   op,
		},
	})
}
