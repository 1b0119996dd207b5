package log

import (
	"time"
)

// Event represents a timer log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// TimerID identifies the timer (UUID). Empty for application-wide events.
	TimerID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Label is the timer's display label at the time of the event.
	Label string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
	Schedule    *ScheduleEvent    `cbor:"11,keyasint,omitempty"`
	Alarm       *AlarmEvent       `cbor:"12,keyasint,omitempty"`
	Lifecycle   *LifecycleEvent   `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a timer state change.
	CategoryState Category = 0
	// CategorySchedule indicates a notification was scheduled or cancelled.
	CategorySchedule Category = 1
	// CategoryAlarm indicates an alarm sound was played.
	CategoryAlarm Category = 2
	// CategoryLifecycle indicates an application suspend or resume.
	CategoryLifecycle Category = 3
	// CategoryError indicates a degraded operation.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategorySchedule:
		return "SCHEDULE"
	case CategoryAlarm:
		return "ALARM"
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a timer state transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason names the operation that caused the change.
	Reason string `cbor:"3,keyasint,omitempty"`

	// RemainingSeconds is the remaining time after the change.
	RemainingSeconds int `cbor:"4,keyasint"`
}

// ScheduleAction distinguishes scheduling from cancellation.
type ScheduleAction uint8

const (
	// ScheduleActionScheduled indicates a notification was registered.
	ScheduleActionScheduled ScheduleAction = 0
	// ScheduleActionCancelled indicates a pending notification was removed.
	ScheduleActionCancelled ScheduleAction = 1
)

// String returns the action name.
func (a ScheduleAction) String() string {
	switch a {
	case ScheduleActionScheduled:
		return "SCHEDULED"
	case ScheduleActionCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// ScheduleEvent captures notification scheduling.
type ScheduleEvent struct {
	// Action is what happened to the notification.
	Action ScheduleAction `cbor:"1,keyasint"`

	// NotificationID identifies the notification request.
	NotificationID string `cbor:"2,keyasint,omitempty"`

	// FireAfterSeconds is the delay of a scheduled notification.
	FireAfterSeconds int `cbor:"3,keyasint,omitempty"`

	// Silent is set when the notification carries no sound.
	Silent bool `cbor:"4,keyasint,omitempty"`

	// Extension is set when a background extension was granted.
	Extension bool `cbor:"5,keyasint,omitempty"`
}

// AlarmTrigger identifies what started an alarm sound.
type AlarmTrigger uint8

const (
	// AlarmTriggerFallback is the in-process fallback delay firing.
	AlarmTriggerFallback AlarmTrigger = 0
	// AlarmTriggerManual is time being subtracted down to zero.
	AlarmTriggerManual AlarmTrigger = 1
)

// String returns the trigger name.
func (t AlarmTrigger) String() string {
	switch t {
	case AlarmTriggerFallback:
		return "FALLBACK"
	case AlarmTriggerManual:
		return "MANUAL"
	default:
		return "UNKNOWN"
	}
}

// AlarmEvent captures an alarm sound starting.
type AlarmEvent struct {
	// Sound is the catalog name of the sound.
	Sound string `cbor:"1,keyasint"`

	// Trigger is what started the sound.
	Trigger AlarmTrigger `cbor:"2,keyasint"`
}

// LifecyclePhase is an application lifecycle transition.
type LifecyclePhase uint8

const (
	// PhaseSuspend indicates the application is leaving the foreground.
	PhaseSuspend LifecyclePhase = 0
	// PhaseResume indicates the application returned to the foreground.
	PhaseResume LifecyclePhase = 1
)

// String returns the phase name.
func (p LifecyclePhase) String() string {
	switch p {
	case PhaseSuspend:
		return "SUSPEND"
	case PhaseResume:
		return "RESUME"
	default:
		return "UNKNOWN"
	}
}

// LifecycleEvent captures a suspend or resume as seen by one timer.
type LifecycleEvent struct {
	// Phase is the lifecycle transition.
	Phase LifecyclePhase `cbor:"1,keyasint"`

	// ElapsedSeconds is the reconciled suspension time (resume only).
	ElapsedSeconds int `cbor:"2,keyasint,omitempty"`

	// RemainingSeconds is the remaining time after the transition.
	RemainingSeconds int `cbor:"3,keyasint"`
}

// ErrorEventData captures a failure that was logged and swallowed.
type ErrorEventData struct {
	// Component is where the error occurred (store, notify, sound, ...).
	Component string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
