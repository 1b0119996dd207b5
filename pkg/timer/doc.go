// Package timer implements one countdown: its persisted fields, its
// countdown state machine and the suspend/resume reconciliation protocol.
//
// # States
//
//	Idle     remaining == configured, not counting down
//	Running  counting down, one tick per second
//	Paused   stopped part-way
//	Expired  reached zero
//
// Reaching zero always stops the countdown in the same step, so a timer
// with no time remaining is never running.
//
// # Suspend and resume
//
// Ticks are not trusted while the application is suspended. WillSuspend
// marks the timer inactive, records the time and re-arms the alarm
// scheduler for the full remaining time. Ticks arriving while inactive are
// ignored. DidResume computes the elapsed wall-clock time and applies it
// in one step with SetTime.
//
// # Observers
//
// OnChange registers a listener called after every mutating operation,
// outside the timer's lock. Changes to persisted fields carry
// ChangeConfig so a collection can save them.
package timer
