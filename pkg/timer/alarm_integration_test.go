package timer_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multitimer/multitimer-go/pkg/alarm"
	"github.com/multitimer/multitimer-go/pkg/background"
	"github.com/multitimer/multitimer-go/pkg/clock"
	"github.com/multitimer/multitimer-go/pkg/notify"
	"github.com/multitimer/multitimer-go/pkg/sound"
	"github.com/multitimer/multitimer-go/pkg/timer"
)

type harness struct {
	clock  *clock.Manual
	center *notify.Center
	window *background.Window
	audio  *sound.MemoryAudio
	timer  *timer.Timer
}

func newHarness(t *testing.T, seconds int) *harness {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := &harness{
		clock: clock.NewManual(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)),
		audio: sound.NewMemoryAudio(),
	}
	h.center = notify.NewCenter(h.clock, true, quiet)
	h.window = background.NewWindow(h.clock, alarm.MaxBackgroundTime, quiet)
	sched := alarm.New(alarm.Config{
		Notifier:   h.center,
		Player:     sound.NewPlayer(sound.MustCatalog(h.audio), quiet),
		Background: h.window,
		Clock:      h.clock,
		Logger:     quiet,
	})
	h.timer = timer.FromRecord(timer.Record{ID: "tea", Label: "Tea", ConfiguredSeconds: seconds}, timer.Config{
		Scheduler: sched,
		Clock:     h.clock,
		Logger:    quiet,
	})
	return h
}

func TestStopLeavesNothingPending(t *testing.T) {
	h := newHarness(t, 45)

	h.timer.Start()
	require.Len(t, h.center.Pending("tea"), 1)

	h.timer.Stop()
	assert.Empty(t, h.center.Pending("tea"))

	h.clock.Advance(time.Hour)
	assert.Empty(t, h.center.Delivered())
	assert.False(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())
}

func TestForegroundExpiryRingsOnce(t *testing.T) {
	h := newHarness(t, 10)

	h.timer.Start()
	h.clock.Advance(10 * time.Second)

	assert.Equal(t, timer.Expired, h.timer.State())
	assert.True(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())
	assert.Equal(t, 1, h.audio.Handle(timer.DefaultAlarmSound).Plays())
	assert.Equal(t, 0, h.window.Active())

	h.timer.Reset()
	assert.False(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())
}

func TestSuspendRearmsOnePending(t *testing.T) {
	h := newHarness(t, 45)

	h.timer.Start()
	h.clock.Advance(20 * time.Second)
	h.timer.WillSuspend()

	pending := h.center.Pending("tea")
	require.Len(t, pending, 1)
	assert.Equal(t, 25*time.Second, pending[0].FireAfter)
	assert.True(t, pending[0].Silent(), "under the threshold the fallback rings")
	assert.Equal(t, 1, h.window.Active())

	h.clock.Advance(25 * time.Second)
	assert.True(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())

	h.timer.DidResume()
	assert.Equal(t, timer.Expired, h.timer.State())
	assert.Equal(t, 1.0, h.timer.Progress())
}

func TestManualFastForward(t *testing.T) {
	h := newHarness(t, 60)

	h.timer.Start()
	h.clock.Advance(40 * time.Second)
	h.timer.SubtractTime(30)

	assert.Empty(t, h.center.Pending("tea"))
	assert.True(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())

	h.timer.AddTime(40)
	assert.False(t, h.audio.Handle(timer.DefaultAlarmSound).Playing())
	pending := h.center.Pending("tea")
	require.Len(t, pending, 1)
	assert.Equal(t, 40*time.Second, pending[0].FireAfter)
}
