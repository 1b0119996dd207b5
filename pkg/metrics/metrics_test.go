package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns the value of the named series whose labels include want.
func sample(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	series:
		for _, m := range f.GetMetric() {
			for k, v := range want {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					continue series
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("series %s%v not found", name, want)
	return 0
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetTimers(3, 1)
	m.NotificationScheduled(true)
	m.NotificationScheduled(false)
	m.NotificationScheduled(false)
	m.NotificationCancelled()
	m.NotificationError()
	m.BackgroundExtension(true)
	m.BackgroundExtension(false)
	m.AlarmPlayed(TriggerFallback)
	m.AlarmPlayed(TriggerManual)
	m.AlarmPlayed(TriggerManual)
	m.StoreError(OpSave)
	m.Reconciled(42)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"multitimer_timers", nil, 3},
		{"multitimer_timers_running", nil, 1},
		{"multitimer_notifications_scheduled_total", map[string]string{"silent": "true"}, 1},
		{"multitimer_notifications_scheduled_total", map[string]string{"silent": "false"}, 2},
		{"multitimer_notifications_cancelled_total", nil, 1},
		{"multitimer_notification_errors_total", nil, 1},
		{"multitimer_background_extensions_total", map[string]string{"result": "denied"}, 1},
		{"multitimer_background_extensions_total", map[string]string{"result": "granted"}, 1},
		{"multitimer_alarms_total", map[string]string{"trigger": TriggerManual}, 2},
		{"multitimer_alarms_total", map[string]string{"trigger": TriggerFallback}, 1},
		{"multitimer_store_errors_total", map[string]string{"op": OpSave}, 1},
		{"multitimer_reconcile_elapsed_seconds", nil, 1},
	}
	for _, tt := range tests {
		if got := sample(t, reg, tt.name, tt.labels); got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetTimers(1, 1)
		m.NotificationScheduled(true)
		m.NotificationCancelled()
		m.NotificationError()
		m.BackgroundExtension(true)
		m.AlarmPlayed(TriggerManual)
		m.StoreError(OpLoad)
		m.Reconciled(1)
	})
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
	assert.NotPanics(t, func() { New(nil) })
}
