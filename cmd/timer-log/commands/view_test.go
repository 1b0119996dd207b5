package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/multitimer/multitimer-go/pkg/log"
)

var testTime = time.Date(2026, 3, 1, 12, 15, 32, 123456000, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.tlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: testTime,
			TimerID:   "aaaaaaaa-1111",
			Category:  log.CategoryState,
			Label:     "Tea",
			StateChange: &log.StateChangeEvent{
				OldState:         "IDLE",
				NewState:         "RUNNING",
				Reason:           "start",
				RemainingSeconds: 180,
			},
		},
		{
			Timestamp: testTime.Add(time.Millisecond),
			TimerID:   "aaaaaaaa-1111",
			Category:  log.CategorySchedule,
			Label:     "Tea",
			Schedule: &log.ScheduleEvent{
				Action:           log.ScheduleActionScheduled,
				NotificationID:   "n-1",
				FireAfterSeconds: 180,
			},
		},
		{
			Timestamp: testTime.Add(time.Second),
			TimerID:   "bbbbbbbb-2222",
			Category:  log.CategorySchedule,
			Label:     "Eggs",
			Schedule: &log.ScheduleEvent{
				Action:           log.ScheduleActionScheduled,
				NotificationID:   "n-2",
				FireAfterSeconds: 20,
				Silent:           true,
				Extension:        true,
			},
		},
		{
			Timestamp: testTime.Add(2 * time.Minute),
			TimerID:   "aaaaaaaa-1111",
			Category:  log.CategoryLifecycle,
			Label:     "Tea",
			Lifecycle: &log.LifecycleEvent{
				Phase:            log.PhaseResume,
				ElapsedSeconds:   95,
				RemainingSeconds: 85,
			},
		},
		{
			Timestamp: testTime.Add(3 * time.Minute),
			TimerID:   "bbbbbbbb-2222",
			Category:  log.CategoryAlarm,
			Label:     "Eggs",
			Alarm:     &log.AlarmEvent{Sound: "alarm2", Trigger: log.AlarmTriggerFallback},
		},
		{
			Timestamp: testTime.Add(4 * time.Minute),
			Category:  log.CategoryError,
			Error: &log.ErrorEventData{
				Component: "store",
				Message:   "disk full",
				Context:   "save",
			},
		},
	}
}

func TestViewFormatsEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"2026-03-01T12:15:32.123456Z [timer:aaaaaaaa] STATE \"Tea\"",
		"IDLE -> RUNNING",
		"Reason: start",
		"Remaining: 00:03:00",
		"SCHEDULED n-1",
		"Fires in: 00:00:20 (silent) [background]",
		"RESUME after 95s",
		"Sound: alarm2 (FALLBACK)",
		"[timer:-] ERROR",
		"Component: store",
		"Context: save",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestViewFilterByTimer(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{TimerPrefix: "bbbb"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "Tea") {
		t.Error("expected Tea events to be filtered out")
	}
	if got := strings.Count(output, "[timer:bbbbbbbb]"); got != 2 {
		t.Errorf("expected 2 Eggs events, got %d", got)
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	cat := log.CategorySchedule
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if got := strings.Count(output, "SCHEDULE"); got != 4 {
		// Two headers and two SCHEDULED actions.
		t.Errorf("expected 4 SCHEDULE matches, got %d", got)
	}
	if strings.Contains(output, "ALARM") {
		t.Error("expected alarm events to be filtered out")
	}
}

func TestViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "missing.tlog"), ViewFilter{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		in   string
		want log.Category
	}{
		{"state", log.CategoryState},
		{"SCHEDULE", log.CategorySchedule},
		{"Alarm", log.CategoryAlarm},
		{"lifecycle", log.CategoryLifecycle},
		{"error", log.CategoryError},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.in)
		if err != nil {
			t.Errorf("ParseCategoryFlag(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}
