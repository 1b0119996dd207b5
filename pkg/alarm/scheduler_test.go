package alarm

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/multitimer/multitimer-go/pkg/background"
	bgmocks "github.com/multitimer/multitimer-go/pkg/background/mocks"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/notify"
	notifymocks "github.com/multitimer/multitimer-go/pkg/notify/mocks"
	"github.com/multitimer/multitimer-go/pkg/sound"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock  *clock.Manual
	center *notify.Center
	window *background.Window
	audio  *sound.MemoryAudio
	player *sound.Player
	events *log.Recorder
	sched  *Scheduler
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:  clock.NewManual(epoch),
		audio:  sound.NewMemoryAudio(),
		events: log.NewRecorder(0),
	}
	f.center = notify.NewCenter(f.clock, true, quietLogger())
	f.window = background.NewWindow(f.clock, MaxBackgroundTime, quietLogger())
	f.player = sound.NewPlayer(sound.MustCatalog(f.audio), quietLogger())
	f.sched = New(Config{
		Notifier:    f.center,
		Player:      f.player,
		Background:  f.window,
		Clock:       f.clock,
		EventLogger: f.events,
		Logger:      quietLogger(),
		NewID:       sequentialIDs(),
	})
	return f
}

func target(seconds int) Target {
	return Target{TimerID: "t1", Label: "Tea", RemainingSeconds: seconds, SoundName: "alarm2"}
}

func TestScheduleLongCountdown(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(90))

	pending := f.center.Pending("t1")
	require.Len(t, pending, 1)
	assert.Equal(t, "alarm2", pending[0].Sound, "long countdowns get an audible notification")
	assert.Equal(t, 90*time.Second, pending[0].FireAfter)
	assert.Equal(t, "Tea", pending[0].Title)
	assert.False(t, f.sched.HoldsExtension())
	assert.True(t, f.sched.FallbackArmed())
	assert.Equal(t, 0, f.window.Active())

	f.clock.Advance(89 * time.Second)
	assert.False(t, f.audio.Handle("alarm2").Playing())

	f.clock.Advance(time.Second)
	assert.True(t, f.audio.Handle("alarm2").Playing())
	assert.False(t, f.sched.FallbackArmed())
	assert.Equal(t, 1, f.events.Count(log.CategoryAlarm))
}

func TestScheduleThresholdBoundary(t *testing.T) {
	tests := []struct {
		seconds   int
		silent    bool
		extension bool
	}{
		{29, true, true},
		{30, false, false},
		{1, true, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%ds", tt.seconds), func(t *testing.T) {
			f := newFixture(t)
			f.sched.Schedule(target(tt.seconds))

			pending := f.center.Pending("t1")
			require.Len(t, pending, 1)
			if got := pending[0].Silent(); got != tt.silent {
				t.Errorf("Silent() = %v, want %v", got, tt.silent)
			}
			if got := f.sched.HoldsExtension(); got != tt.extension {
				t.Errorf("HoldsExtension() = %v, want %v", got, tt.extension)
			}
		})
	}
}

func TestShortCountdownReleasesExtensionOnFire(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(20))
	require.Equal(t, 1, f.window.Active())

	f.clock.Advance(20 * time.Second)
	assert.True(t, f.audio.Handle("alarm2").Playing())
	assert.Equal(t, 0, f.window.Active())

	begun, ended := f.window.Stats()
	assert.Equal(t, begun, ended)
}

func TestFallbackSurvivesRevokedExtension(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(10))
	f.window.Revoke()
	assert.False(t, f.sched.HoldsExtension())
	assert.True(t, f.sched.FallbackArmed())

	f.clock.Advance(10 * time.Second)
	assert.True(t, f.audio.Handle("alarm2").Playing())
	_, ended := f.window.Stats()
	assert.Equal(t, 1, ended)
}

func TestScheduleTwiceLeavesOnePending(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(90))
	f.sched.Schedule(target(60))

	pending := f.center.Pending("t1")
	require.Len(t, pending, 1)
	assert.Equal(t, "n2", pending[0].ID)
	id, ok := f.sched.PendingNotificationID()
	assert.True(t, ok)
	assert.Equal(t, "n2", id)

	// Only the second fallback fires.
	f.clock.Advance(60 * time.Second)
	assert.Equal(t, 1, f.audio.Handle("alarm2").Plays())
	f.clock.Advance(time.Minute)
	assert.Equal(t, 1, f.audio.Handle("alarm2").Plays())
}

func TestScheduleZeroCancelsOnly(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(90))
	f.sched.Schedule(target(0))

	assert.Empty(t, f.center.Pending("t1"))
	assert.False(t, f.sched.FallbackArmed())
	assert.Equal(t, 0, f.clock.Pending())

	f.sched.Schedule(target(-5))
	assert.Empty(t, f.center.Pending(""))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)

	f.sched.Cancel()

	f.sched.Schedule(target(15))
	f.sched.Cancel()
	f.sched.Cancel()

	assert.Empty(t, f.center.Pending("t1"))
	assert.False(t, f.sched.FallbackArmed())
	assert.False(t, f.sched.HoldsExtension())
	assert.Equal(t, 0, f.window.Active())

	f.clock.Advance(time.Hour)
	assert.Equal(t, 0, f.audio.Handle("alarm2").Plays())

	cancelled := f.events.Matching(log.Filter{TimerID: "t1"})
	require.Len(t, cancelled, 2)
	assert.Equal(t, log.ScheduleActionCancelled, cancelled[1].Schedule.Action)
}

func TestResetStopsSound(t *testing.T) {
	f := newFixture(t)

	f.sched.Schedule(target(5))
	f.clock.Advance(5 * time.Second)
	require.True(t, f.audio.Handle("alarm2").Playing())

	f.sched.Reset()
	assert.False(t, f.audio.Handle("alarm2").Playing())
	_, playing := f.player.Playing()
	assert.False(t, playing)
}

func TestPlaySound(t *testing.T) {
	f := newFixture(t)

	f.sched.PlaySound("alarm")
	assert.True(t, f.audio.Handle("alarm").Playing())

	alarms := f.events.Matching(log.Filter{})
	require.Len(t, alarms, 1)
	assert.Equal(t, log.AlarmTriggerManual, alarms[0].Alarm.Trigger)

	f.audio.Handle("alarm").FailWith(errors.New("busy"))
	f.sched.PlaySound("alarm")
	assert.Equal(t, 1, f.events.Count(log.CategoryError))
}

func TestPermissionDeniedKeepsFallback(t *testing.T) {
	f := newFixture(t)
	f.center.SetPermission(false)

	f.sched.Schedule(target(40))

	assert.Empty(t, f.center.Pending(""))
	_, ok := f.sched.PendingNotificationID()
	assert.False(t, ok)
	assert.True(t, f.sched.FallbackArmed())
	assert.Equal(t, 1, f.events.Count(log.CategoryError))

	f.clock.Advance(40 * time.Second)
	assert.True(t, f.audio.Handle("alarm2").Playing())
}

func TestNotifierErrorsAreSwallowed(t *testing.T) {
	clk := clock.NewManual(epoch)
	audio := sound.NewMemoryAudio()
	notifier := notifymocks.NewMockService(t)

	notifier.EXPECT().RequestPermission(mock.Anything).
		Run(func(callback func(bool, error)) { callback(false, errors.New("unavailable")) }).
		Return().Once()
	notifier.EXPECT().Schedule(mock.MatchedBy(func(r notify.Request) bool {
		return r.CorrelationID == "t1" && r.Silent()
	})).Return(errors.New("quota")).Once()

	s := New(Config{
		Notifier: notifier,
		Player:   sound.NewPlayer(sound.MustCatalog(audio), quietLogger()),
		Clock:    clk,
		Logger:   quietLogger(),
	})
	s.Schedule(target(10))

	assert.True(t, s.FallbackArmed())
	assert.False(t, s.HoldsExtension(), "no background service configured")

	// Nothing pending, so cancel must not reach the notifier.
	s.Cancel()
}

func TestBackgroundDenied(t *testing.T) {
	f := newFixture(t)
	bg := bgmocks.NewMockService(t)
	bg.EXPECT().Begin("alarm t1", mock.Anything).Return(background.InvalidToken, false).Once()

	s := New(Config{
		Notifier:   f.center,
		Player:     f.player,
		Background: bg,
		Clock:      f.clock,
		Logger:     quietLogger(),
	})
	s.Schedule(target(10))

	assert.False(t, s.HoldsExtension())
	assert.True(t, s.FallbackArmed())
	assert.Len(t, f.center.Pending("t1"), 1)
}

func TestExtensionEndedExactlyOnce(t *testing.T) {
	f := newFixture(t)
	bg := bgmocks.NewMockService(t)
	bg.EXPECT().Begin("alarm t1", mock.Anything).Return(background.Token(1), true).Once()
	bg.EXPECT().End(background.Token(1)).Return().Once()

	s := New(Config{
		Notifier:   f.center,
		Player:     f.player,
		Background: bg,
		Clock:      f.clock,
		Logger:     quietLogger(),
	})
	s.Schedule(target(10))
	f.clock.Advance(10 * time.Second)
	s.Cancel()
	s.Reset()
}
