// Package alarm keeps one timer's wake-up notification and in-process
// fallback alarm in step with its remaining time.
//
// Each Scheduler holds at most one pending notification, one fallback
// delay and one background extension. Schedule always cancels all three
// before arming new ones, so no two notifications for the same timer are
// ever pending together.
//
// Countdowns shorter than MaxBackgroundTime get a silent notification and
// a background extension request: the fallback is expected to ring before
// the host would deliver the notification. Longer countdowns get an
// audible notification as the durable alarm.
package alarm
