package notify

import (
	"errors"
	"time"
)

// Scheduling errors.
var (
	// ErrPermissionDenied is returned when the user has not granted
	// notification permission.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrInvalidDelay is returned for a non-positive fire delay.
	ErrInvalidDelay = errors.New("notification delay must be positive")

	// ErrDuplicateID is returned when a request reuses a pending id.
	ErrDuplicateID = errors.New("notification id already pending")
)

// Request describes one non-repeating notification.
type Request struct {
	// ID identifies the request. Cancel takes this id.
	ID string

	// CorrelationID ties the request to the timer that scheduled it.
	CorrelationID string

	// Title is the user-visible title, typically the timer label.
	Title string

	// Body is the user-visible text.
	Body string

	// Sound is the alarm sound name. Empty means the notification is silent.
	Sound string

	// FireAfter is the delay from scheduling until delivery.
	FireAfter time.Duration
}

// Silent reports whether the notification carries no sound.
func (r Request) Silent() bool {
	return r.Sound == ""
}

// Service schedules local notifications.
type Service interface {
	// RequestPermission asks for permission to post notifications. The
	// callback receives the outcome and may run on any goroutine.
	RequestPermission(callback func(granted bool, err error))

	// Schedule registers a request to fire after req.FireAfter.
	Schedule(req Request) error

	// Cancel removes a pending request. Unknown ids are ignored.
	Cancel(id string)
}

// Delivery is a request that fired.
type Delivery struct {
	Request
	DeliveredAt time.Time
}
