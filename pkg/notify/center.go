package notify

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/multitimer/multitimer-go/pkg/clock"
)

// Center is an in-process notification service. Pending requests fire on
// the supplied clock; deliveries are passed to the OnDeliver handler.
type Center struct {
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	granted   bool
	asked     int
	pending   map[string]*pendingRequest
	delivered []Delivery
	onDeliver func(Delivery)
}

type pendingRequest struct {
	req      Request
	queuedAt time.Time
	timer    clock.Timer
}

// NewCenter creates a Center with permission granted according to granted.
func NewCenter(clk clock.Clock, granted bool, logger *slog.Logger) *Center {
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{
		clock:   clk,
		logger:  logger,
		granted: granted,
		pending: make(map[string]*pendingRequest),
	}
}

// OnDeliver sets the handler called when a request fires. It runs on the
// clock's callback goroutine, outside the Center's lock.
func (c *Center) OnDeliver(fn func(Delivery)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDeliver = fn
}

// SetPermission changes the permission answer for later requests.
func (c *Center) SetPermission(granted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = granted
}

// RequestPermission reports the current permission answer synchronously.
func (c *Center) RequestPermission(callback func(granted bool, err error)) {
	c.mu.Lock()
	c.asked++
	granted := c.granted
	c.mu.Unlock()

	if callback == nil {
		return
	}
	if granted {
		callback(true, nil)
	} else {
		callback(false, ErrPermissionDenied)
	}
}

// PermissionRequests returns how many times permission was requested.
func (c *Center) PermissionRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asked
}

// Schedule queues req.
func (c *Center) Schedule(req Request) error {
	if req.FireAfter <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDelay, req.FireAfter)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.granted {
		return ErrPermissionDenied
	}
	if _, ok := c.pending[req.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, req.ID)
	}

	p := &pendingRequest{req: req, queuedAt: c.clock.Now()}
	p.timer = c.clock.AfterFunc(req.FireAfter, func() { c.fire(req.ID, p) })
	c.pending[req.ID] = p

	c.logger.Debug("notification scheduled",
		"id", req.ID,
		"correlation_id", req.CorrelationID,
		"fire_after", req.FireAfter,
		"silent", req.Silent())
	return nil
}

// Cancel removes the pending request with id.
func (c *Center) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return
	}
	p.timer.Stop()
	delete(c.pending, id)
	c.logger.Debug("notification cancelled", "id", id)
}

func (c *Center) fire(id string, p *pendingRequest) {
	c.mu.Lock()
	if c.pending[id] != p {
		c.mu.Unlock()
		return
	}
	delete(c.pending, id)
	d := Delivery{Request: p.req, DeliveredAt: c.clock.Now()}
	c.delivered = append(c.delivered, d)
	handler := c.onDeliver
	c.mu.Unlock()

	c.logger.Info("notification delivered", "id", id, "title", d.Title, "silent", d.Silent())
	if handler != nil {
		handler(d)
	}
}

// Pending returns the pending requests for correlationID, ordered by
// scheduling time. An empty correlationID returns all pending requests.
func (c *Center) Pending(correlationID string) []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]*pendingRequest, 0, len(c.pending))
	for _, p := range c.pending {
		if correlationID == "" || p.req.CorrelationID == correlationID {
			entries = append(entries, p)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].queuedAt.Equal(entries[j].queuedAt) {
			return entries[i].queuedAt.Before(entries[j].queuedAt)
		}
		return entries[i].req.ID < entries[j].req.ID
	})

	out := make([]Request, len(entries))
	for i, p := range entries {
		out[i] = p.req
	}
	return out
}

// Delivered returns every delivery so far, oldest first.
func (c *Center) Delivered() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Delivery(nil), c.delivered...)
}

// Compile-time interface satisfaction check.
var _ Service = (*Center)(nil)
