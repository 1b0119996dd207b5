// Package notify defines the local notification service used to wake the
// user when a timer expires while the application is not in the
// foreground, and provides Center, an in-process implementation driven
// by a clock.Clock.
package notify
