package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/multitimer/multitimer-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Timers           map[string]*TimerStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// TimerStats holds statistics for a single timer.
type TimerStats struct {
	Label         string
	FirstSeen     time.Time
	LastSeen      time.Time
	Events        int
	Scheduled     int
	Cancelled     int
	Alarms        int
	Reconciled    int
	ReconciledSec int
}

// Collect reads every event from path into Stats.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Timers:           make(map[string]*TimerStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Error != nil {
		s.Errors++
	}

	if event.TimerID == "" {
		return
	}
	ts, ok := s.Timers[event.TimerID]
	if !ok {
		ts = &TimerStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Timers[event.TimerID] = ts
	}
	ts.Events++
	if event.Label != "" {
		ts.Label = event.Label
	}
	if event.Timestamp.After(ts.LastSeen) {
		ts.LastSeen = event.Timestamp
	}

	switch {
	case event.Schedule != nil:
		if event.Schedule.Action == log.ScheduleActionCancelled {
			ts.Cancelled++
		} else {
			ts.Scheduled++
		}
	case event.Alarm != nil:
		ts.Alarms++
	case event.Lifecycle != nil:
		if event.Lifecycle.Phase == log.PhaseResume {
			ts.Reconciled++
			ts.ReconciledSec += event.Lifecycle.ElapsedSeconds
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Timer Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryState, log.CategorySchedule, log.CategoryAlarm, log.CategoryLifecycle, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	if len(stats.Timers) > 0 {
		type timerInfo struct {
			id    string
			stats *TimerStats
		}
		timers := make([]timerInfo, 0, len(stats.Timers))
		for id, ts := range stats.Timers {
			timers = append(timers, timerInfo{id, ts})
		}
		sort.Slice(timers, func(i, j int) bool {
			if !timers[i].stats.FirstSeen.Equal(timers[j].stats.FirstSeen) {
				return timers[i].stats.FirstSeen.Before(timers[j].stats.FirstSeen)
			}
			return timers[i].id < timers[j].id
		})

		fmt.Fprintln(w)
		for _, t := range timers {
			fmt.Fprintf(w, "  [%s] %q %d events\n", shortenID(t.id), t.stats.Label, t.stats.Events)
			if t.stats.Scheduled > 0 || t.stats.Cancelled > 0 {
				fmt.Fprintf(w, "           Notifications: %d scheduled, %d cancelled\n", t.stats.Scheduled, t.stats.Cancelled)
			}
			if t.stats.Alarms > 0 {
				fmt.Fprintf(w, "           Alarms: %d\n", t.stats.Alarms)
			}
			if t.stats.Reconciled > 0 {
				fmt.Fprintf(w, "           Resumes: %d (%ds reconciled)\n", t.stats.Reconciled, t.stats.ReconciledSec)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
