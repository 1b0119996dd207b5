// Package clock provides the time source used by timers and schedulers.
//
// Production code uses Real. Tests use Manual, which only moves when
// Advance is called and runs due callbacks synchronously on the caller's
// goroutine, making countdown behavior deterministic.
package clock

import (
	"sync"
	"time"
)

// Timer is a cancellable subscription returned by AfterFunc and Every.
// Stop reports whether the call stopped the subscription; calling it
// again, or after a one-shot has fired, is a no-op returning false.
type Timer interface {
	Stop() bool
}

// Clock is a source of the current time and of delayed callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// Every calls f every d until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Real is the wall clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every starts a ticker goroutine calling f every d.
func (Real) Every(d time.Duration, f func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) run(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

// Compile-time interface satisfaction check.
var _ Clock = Real{}
