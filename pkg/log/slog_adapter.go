package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes timer events to an slog.Logger.
// Useful for development when you want to see events in the console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter logging at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}
	if event.TimerID != "" {
		attrs = append(attrs, slog.String("timer_id", event.TimerID))
	}
	if event.Label != "" {
		attrs = append(attrs, slog.String("label", event.Label))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
			slog.Int("remaining", event.StateChange.RemainingSeconds),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Schedule != nil:
		attrs = append(attrs,
			slog.String("action", event.Schedule.Action.String()),
			slog.String("notification_id", event.Schedule.NotificationID),
		)
		if event.Schedule.Action == ScheduleActionScheduled {
			attrs = append(attrs,
				slog.Int("fire_after", event.Schedule.FireAfterSeconds),
				slog.Bool("silent", event.Schedule.Silent),
				slog.Bool("extension", event.Schedule.Extension),
			)
		}
	case event.Alarm != nil:
		attrs = append(attrs,
			slog.String("sound", event.Alarm.Sound),
			slog.String("trigger", event.Alarm.Trigger.String()),
		)
	case event.Lifecycle != nil:
		attrs = append(attrs,
			slog.String("phase", event.Lifecycle.Phase.String()),
			slog.Int("remaining", event.Lifecycle.RemainingSeconds),
		)
		if event.Lifecycle.Phase == PhaseResume {
			attrs = append(attrs, slog.Int("elapsed", event.Lifecycle.ElapsedSeconds))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("component", event.Error.Component),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "timer event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
