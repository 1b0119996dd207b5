// Package manager owns the collection of timers.
//
// The Manager assigns default labels and colors to new timers, persists
// records through a Store, fans application lifecycle signals out to every
// timer and saves edits to persisted fields as they happen. Persistence
// failures are logged and counted; they never roll back in-memory state.
package manager
