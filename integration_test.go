package multitimer_test

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/multitimer/multitimer-go/pkg/background"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/manager"
	"github.com/multitimer/multitimer-go/pkg/notify"
	"github.com/multitimer/multitimer-go/pkg/sound"
	"github.com/multitimer/multitimer-go/pkg/store"
	"github.com/multitimer/multitimer-go/pkg/timer"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// app is one run of the application against a data directory.
type app struct {
	clock   *clock.Manual
	center  *notify.Center
	window  *background.Window
	audio   *sound.MemoryAudio
	backend store.Backend
	events  *log.FileLogger
	mgr     *manager.Manager
}

func openApp(t *testing.T, kind, dataDir string, now time.Time) *app {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := store.Open(kind, dataDir)
	if err != nil {
		t.Fatalf("Failed to open %s store: %v", kind, err)
	}
	events, err := log.NewFileLogger(filepath.Join(dataDir, "timers.tlog"))
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}

	a := &app{
		clock:   clock.NewManual(now),
		audio:   sound.NewMemoryAudio(),
		backend: backend,
		events:  events,
	}
	a.center = notify.NewCenter(a.clock, true, quiet)
	a.window = background.NewWindow(a.clock, 0, quiet)
	a.mgr = manager.NewManager(manager.Config{
		Store:       backend,
		Notifier:    a.center,
		Player:      sound.NewPlayer(sound.MustCatalog(a.audio), quiet),
		Background:  a.window,
		Clock:       a.clock,
		EventLogger: events,
		Logger:      quiet,
	})
	if _, err := a.mgr.Load(); err != nil {
		t.Fatalf("Failed to load timers: %v", err)
	}
	return a
}

func (a *app) close(t *testing.T) {
	t.Helper()
	a.mgr.Close()
	if err := a.events.Close(); err != nil {
		t.Errorf("Failed to close event log: %v", err)
	}
	if err := a.backend.Close(); err != nil {
		t.Errorf("Failed to close store: %v", err)
	}
}

// TestE2E_PersistAcrossRestart adds and edits timers, restarts the
// application on the same data directory and checks they come back stopped.
func TestE2E_PersistAcrossRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, kind := range []string{store.KindJSON, store.KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			dir := t.TempDir()

			first := openApp(t, kind, dir, epoch)
			tea, err := first.mgr.AddTimer(180)
			if err != nil {
				t.Fatalf("AddTimer failed: %v", err)
			}
			first.clock.Advance(time.Second)
			eggs, err := first.mgr.AddTimer(420)
			if err != nil {
				t.Fatalf("AddTimer failed: %v", err)
			}
			tea.SetLabel("Tea")
			eggs.SetAlarmSoundName("alarm2")
			eggs.SetColor(timer.SkyBlue)
			first.clock.Advance(30 * time.Second)
			first.close(t)

			second := openApp(t, kind, dir, epoch.Add(time.Hour))
			defer second.close(t)

			timers := second.mgr.ListTimers(false)
			if len(timers) != 2 {
				t.Fatalf("Expected 2 timers after restart, got %d", len(timers))
			}

			got := timers[0].Snapshot()
			if got.ID != tea.ID() || got.Label != "Tea" || got.ConfiguredSeconds != 180 {
				t.Errorf("Unexpected first timer: %+v", got)
			}
			if got.Playing || got.RemainingSeconds != 180 {
				t.Errorf("Restored timer should be stopped at its configured time: %+v", got)
			}

			got = timers[1].Snapshot()
			if got.Label != "Timer 2" || got.AlarmSoundName != "alarm2" || got.Color != timer.SkyBlue {
				t.Errorf("Unexpected second timer: %+v", got)
			}

			next, err := second.mgr.AddTimer(60)
			if err != nil {
				t.Fatalf("AddTimer failed: %v", err)
			}
			if label := next.Snapshot().Label; label != "Timer 3" {
				t.Errorf("Expected Timer 3, got %q", label)
			}
		})
	}
}

// TestE2E_ShortCountdownInBackground runs a countdown shorter than the
// background budget through suspension and checks the fallback alarm rings
// and the extension is released.
func TestE2E_ShortCountdownInBackground(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	a := openApp(t, store.KindMemory, t.TempDir(), epoch)
	defer a.close(t)

	tm, err := a.mgr.AddTimer(20)
	if err != nil {
		t.Fatalf("AddTimer failed: %v", err)
	}

	pending := a.center.Pending(tm.ID())
	if len(pending) != 1 || !pending[0].Silent() {
		t.Fatalf("Expected one silent notification, got %+v", pending)
	}

	a.mgr.WillSuspend()
	a.clock.Advance(20 * time.Second)

	if !a.audio.Handle("alarm").Playing() {
		t.Error("Expected fallback alarm to ring while suspended")
	}
	if a.window.Active() != 0 {
		t.Errorf("Expected background extension to be released, %d active", a.window.Active())
	}

	a.clock.Advance(5 * time.Second)
	a.mgr.DidResume()

	if tm.IsPlaying() || tm.RemainingSeconds() != 0 {
		t.Errorf("Expected expired timer after resume, got remaining=%d playing=%v", tm.RemainingSeconds(), tm.IsPlaying())
	}
	if tm.State() != timer.Expired {
		t.Errorf("Expected EXPIRED, got %s", tm.State())
	}
}

// TestE2E_LongCountdownNotification checks that a long countdown is handed
// to the notification service with its sound and survives suspension.
func TestE2E_LongCountdownNotification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	a := openApp(t, store.KindMemory, t.TempDir(), epoch)
	defer a.close(t)

	var deliveries []notify.Delivery
	a.center.OnDeliver(func(d notify.Delivery) { deliveries = append(deliveries, d) })

	tm, err := a.mgr.AddTimer(90)
	if err != nil {
		t.Fatalf("AddTimer failed: %v", err)
	}
	tm.SetAlarmSoundName("alarm2")

	a.clock.Advance(30 * time.Second)
	a.mgr.WillSuspend()
	a.clock.Advance(10 * time.Minute)

	if len(deliveries) != 1 {
		t.Fatalf("Expected 1 delivery, got %d", len(deliveries))
	}
	if d := deliveries[0]; d.Sound != "alarm2" || d.CorrelationID != tm.ID() {
		t.Errorf("Unexpected delivery: %+v", d)
	}
	if got, want := deliveries[0].DeliveredAt, epoch.Add(90*time.Second); !got.Equal(want) {
		t.Errorf("Delivered at %v, want %v", got, want)
	}
	if begun, _ := a.window.Stats(); begun != 0 {
		t.Error("Long countdowns should not request background time")
	}

	a.mgr.DidResume()
	if tm.RemainingSeconds() != 0 || tm.State() != timer.Expired {
		t.Errorf("Expected expired timer, got remaining=%d state=%s", tm.RemainingSeconds(), tm.State())
	}
}

// TestE2E_EventLog checks that a session's events can be read back and
// filtered from the event log file.
func TestE2E_EventLog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dir := t.TempDir()
	a := openApp(t, store.KindMemory, dir, epoch)

	tm, err := a.mgr.AddTimer(45)
	if err != nil {
		t.Fatalf("AddTimer failed: %v", err)
	}
	a.mgr.WillSuspend()
	a.clock.Advance(time.Minute)
	a.mgr.DidResume()
	if err := a.mgr.DeleteTimer(tm.ID()); err != nil {
		t.Fatalf("DeleteTimer failed: %v", err)
	}
	a.close(t)

	cat := log.CategoryLifecycle
	reader, err := log.NewFilteredReader(filepath.Join(dir, "timers.tlog"), log.Filter{TimerID: tm.ID(), Category: &cat})
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer reader.Close()

	var phases []log.LifecyclePhase
	var elapsed int
	for {
		e, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		phases = append(phases, e.Lifecycle.Phase)
		elapsed += e.Lifecycle.ElapsedSeconds
	}

	if len(phases) != 2 || phases[0] != log.PhaseSuspend || phases[1] != log.PhaseResume {
		t.Errorf("Unexpected lifecycle phases: %v", phases)
	}
	if elapsed != 60 {
		t.Errorf("Expected 60s reconciled, got %d", elapsed)
	}

	var buf bytes.Buffer
	all, err := log.NewReader(filepath.Join(dir, "timers.tlog"))
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer all.Close()
	categories := map[log.Category]int{}
	for {
		e, err := all.Next()
		if err != nil {
			break
		}
		categories[e.Category]++
		buf.WriteString(e.Category.String())
	}
	for _, c := range []log.Category{log.CategoryState, log.CategorySchedule, log.CategoryAlarm, log.CategoryLifecycle} {
		if categories[c] == 0 {
			t.Errorf("Expected %s events in %s", c, buf.String())
		}
	}
}
