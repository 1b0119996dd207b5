// Package metrics exposes Prometheus collectors for timers, alarms and
// notifications.
//
// All methods are safe on a nil *Metrics, so components can take an
// optional metrics sink.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "multitimer"

// Alarm trigger label values.
const (
	TriggerFallback = "fallback"
	TriggerManual   = "manual"
)

// Store operation label values.
const (
	OpLoad   = "load"
	OpSave   = "save"
	OpDelete = "delete"
)

// Metrics bundles the collectors.
type Metrics struct {
	Timers                 prometheus.Gauge
	Running                prometheus.Gauge
	NotificationsScheduled *prometheus.CounterVec
	NotificationsCancelled prometheus.Counter
	NotificationErrors     prometheus.Counter
	BackgroundExtensions   *prometheus.CounterVec
	Alarms                 *prometheus.CounterVec
	StoreErrors            *prometheus.CounterVec
	ReconcileElapsed       prometheus.Histogram
}

// New constructs the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Timers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timers",
			Help:      "Number of timers in the collection",
		}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timers_running",
			Help:      "Number of timers currently counting down",
		}),
		NotificationsScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_scheduled_total",
				Help:      "Notifications scheduled, by whether they carry a sound",
			},
			[]string{"silent"},
		),
		NotificationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_cancelled_total",
			Help:      "Pending notifications cancelled",
		}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_errors_total",
			Help:      "Notification schedule requests rejected by the service",
		}),
		BackgroundExtensions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "background_extensions_total",
				Help:      "Background extension requests by result",
			},
			[]string{"result"},
		),
		Alarms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alarms_total",
				Help:      "Alarm sounds started, by trigger",
			},
			[]string{"trigger"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Persistence failures by operation",
			},
			[]string{"op"},
		),
		ReconcileElapsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_elapsed_seconds",
			Help:      "Suspended time applied to running timers on resume",
			Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 3600, 14400},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Timers,
			m.Running,
			m.NotificationsScheduled,
			m.NotificationsCancelled,
			m.NotificationErrors,
			m.BackgroundExtensions,
			m.Alarms,
			m.StoreErrors,
			m.ReconcileElapsed,
		)
	}
	return m
}

// SetTimers records the collection size and the number running.
func (m *Metrics) SetTimers(total, running int) {
	if m == nil {
		return
	}
	m.Timers.Set(float64(total))
	m.Running.Set(float64(running))
}

// NotificationScheduled counts a scheduled notification.
func (m *Metrics) NotificationScheduled(silent bool) {
	if m == nil {
		return
	}
	label := "false"
	if silent {
		label = "true"
	}
	m.NotificationsScheduled.WithLabelValues(label).Inc()
}

// NotificationCancelled counts a cancelled notification.
func (m *Metrics) NotificationCancelled() {
	if m == nil {
		return
	}
	m.NotificationsCancelled.Inc()
}

// NotificationError counts a rejected notification.
func (m *Metrics) NotificationError() {
	if m == nil {
		return
	}
	m.NotificationErrors.Inc()
}

// BackgroundExtension counts an extension request.
func (m *Metrics) BackgroundExtension(granted bool) {
	if m == nil {
		return
	}
	result := "denied"
	if granted {
		result = "granted"
	}
	m.BackgroundExtensions.WithLabelValues(result).Inc()
}

// AlarmPlayed counts an alarm started by trigger.
func (m *Metrics) AlarmPlayed(trigger string) {
	if m == nil {
		return
	}
	m.Alarms.WithLabelValues(trigger).Inc()
}

// StoreError counts a failed store operation.
func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(op).Inc()
}

// Reconciled records the elapsed seconds applied on resume.
func (m *Metrics) Reconciled(elapsedSeconds int) {
	if m == nil {
		return
	}
	m.ReconcileElapsed.Observe(float64(elapsedSeconds))
}
