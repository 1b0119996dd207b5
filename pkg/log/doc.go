// Package log provides structured event logging for timers.
//
// This package defines the Logger interface and Event types for capturing
// timer lifecycle events (state transitions, notification scheduling,
// alarms, suspend/resume). It is separate from operational logging (slog):
// the event log is a complete machine-readable trace for debugging and
// offline analysis.
//
// # Basic Usage
//
// Components accept a Logger; pass nil or NoopLogger to disable it:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to a CBOR file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/lib/multitimer/events.tlog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(adapter, fileLogger)
//
// # Event Types
//
//   - State: a timer moved between Idle, Running, Paused and Expired
//   - Schedule: a wake-up notification was scheduled or cancelled
//   - Alarm: an alarm sound started playing
//   - Lifecycle: the application was suspended or resumed
//   - Error: a collaborator failed and the operation degraded
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys, using
// the .tlog extension. The timer-log command views and summarizes them.
package log
