package background

import (
	"log/slog"
	"sync"
	"time"

	"github.com/multitimer/multitimer-go/pkg/clock"
)

// DefaultBudget is the extension length granted by NewWindow when budget
// is zero.
const DefaultBudget = 30 * time.Second

// Window is a simulated host that grants extensions of a fixed budget and
// revokes them when the budget runs out.
type Window struct {
	clock  clock.Clock
	budget time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	denied bool
	next   Token
	active map[Token]*grant
	begun  int
	ended  int
}

type grant struct {
	name    string
	expired func()
	timer   clock.Timer
}

// NewWindow creates a Window granting budget per extension.
func NewWindow(clk clock.Clock, budget time.Duration, logger *slog.Logger) *Window {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		clock:  clk,
		budget: budget,
		logger: logger,
		active: make(map[Token]*grant),
	}
}

// SetDenied makes later Begin calls fail (or succeed again).
func (w *Window) SetDenied(denied bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.denied = denied
}

// Begin grants an extension unless denied.
func (w *Window) Begin(name string, expired func()) (Token, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.denied {
		w.logger.Debug("background extension denied", "name", name)
		return InvalidToken, false
	}

	w.next++
	token := w.next
	g := &grant{name: name, expired: expired}
	g.timer = w.clock.AfterFunc(w.budget, func() { w.expire(token) })
	w.active[token] = g
	w.begun++

	w.logger.Debug("background extension granted", "name", name, "token", token, "budget", w.budget)
	return token, true
}

// End releases token.
func (w *Window) End(token Token) {
	w.mu.Lock()
	defer w.mu.Unlock()

	g, ok := w.active[token]
	if !ok {
		return
	}
	g.timer.Stop()
	delete(w.active, token)
	w.ended++
}

// Revoke expires every active extension immediately.
func (w *Window) Revoke() {
	w.mu.Lock()
	tokens := make([]Token, 0, len(w.active))
	for t := range w.active {
		tokens = append(tokens, t)
	}
	w.mu.Unlock()

	for _, t := range tokens {
		w.expire(t)
	}
}

// expire runs the expiration handler for token. The handler is expected
// to call End; the grant stays active until it does.
func (w *Window) expire(token Token) {
	w.mu.Lock()
	g, ok := w.active[token]
	if ok {
		g.timer.Stop()
	}
	w.mu.Unlock()

	if !ok {
		return
	}
	w.logger.Debug("background extension expired", "name", g.name, "token", token)
	if g.expired != nil {
		g.expired()
	}
}

// Active returns the number of extensions not yet ended.
func (w *Window) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.active)
}

// Stats returns how many extensions were granted and ended.
func (w *Window) Stats() (begun, ended int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.begun, w.ended
}

// Compile-time interface satisfaction check.
var _ Service = (*Window)(nil)
