// Package commands implements the timer-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/timeutil"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	TimerPrefix string
	Category    *log.Category
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		TimerID:     f.TimerPrefix,
		TimerPrefix: true,
		Category:    f.Category,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [timer:id] CATEGORY "label"
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	id := shortenID(event.TimerID)
	if id == "" {
		id = "-"
	}

	fmt.Fprintf(w, "%s [timer:%s] %s", ts, id, event.Category.String())
	if event.Label != "" {
		fmt.Fprintf(w, " %q", event.Label)
	}
	fmt.Fprintln(w)

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Schedule != nil:
		formatScheduleDetails(w, event.Schedule)
	case event.Alarm != nil:
		fmt.Fprintf(w, "  Sound: %s (%s)\n", event.Alarm.Sound, event.Alarm.Trigger.String())
	case event.Lifecycle != nil:
		formatLifecycleDetails(w, event.Lifecycle)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a timer ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" && sc.OldState != sc.NewState {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
	fmt.Fprintf(w, "  Remaining: %s\n", timeutil.SecondsToTimeString(sc.RemainingSeconds))
}

func formatScheduleDetails(w io.Writer, s *log.ScheduleEvent) {
	fmt.Fprintf(w, "  %s", s.Action.String())
	if s.NotificationID != "" {
		fmt.Fprintf(w, " %s", s.NotificationID)
	}
	fmt.Fprintln(w)
	if s.Action == log.ScheduleActionScheduled {
		fmt.Fprintf(w, "  Fires in: %s", timeutil.SecondsToTimeString(s.FireAfterSeconds))
		if s.Silent {
			fmt.Fprint(w, " (silent)")
		}
		if s.Extension {
			fmt.Fprint(w, " [background]")
		}
		fmt.Fprintln(w)
	}
}

func formatLifecycleDetails(w io.Writer, l *log.LifecycleEvent) {
	fmt.Fprintf(w, "  %s", l.Phase.String())
	if l.Phase == log.PhaseResume {
		fmt.Fprintf(w, " after %ds", l.ElapsedSeconds)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Remaining: %s\n", timeutil.SecondsToTimeString(l.RemainingSeconds))
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Component: %s\n", err.Component)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "state":
		return log.CategoryState, nil
	case "schedule":
		return log.CategorySchedule, nil
	case "alarm":
		return log.CategoryAlarm, nil
	case "lifecycle":
		return log.CategoryLifecycle, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be state, schedule, alarm, lifecycle, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
