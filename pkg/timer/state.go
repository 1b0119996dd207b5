package timer

import (
	"time"

	"github.com/multitimer/multitimer-go/pkg/timeutil"
)

// State is the derived countdown state.
type State uint8

const (
	// Idle is a full, stopped countdown.
	Idle State = iota
	// Running is counting down.
	Running
	// Paused is stopped part-way.
	Paused
	// Expired reached zero.
	Expired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// ChangeKind tells observers what kind of fields changed.
type ChangeKind uint8

const (
	// ChangeCountdown is a change to in-memory countdown state only.
	ChangeCountdown ChangeKind = iota
	// ChangeConfig is a change to persisted fields.
	ChangeConfig
)

// Change is delivered to observers after a mutating operation.
type Change struct {
	TimerID          string
	Kind             ChangeKind
	Reason           string
	State            State
	RemainingSeconds int
}

// Snapshot is a consistent copy of a timer's fields.
type Snapshot struct {
	ID                string
	Label             string
	ConfiguredSeconds int
	RemainingSeconds  int
	LengthSeconds     int
	Progress          float64
	Playing           bool
	Active            bool
	State             State
	Color             Color
	AlarmSoundName    string
	DateAdded         time.Time
}

// Remaining returns the remaining time as HH:MM:SS.
func (s Snapshot) Remaining() string {
	return timeutil.SecondsToTimeString(s.RemainingSeconds)
}

// Configured returns the configured length as HH:MM:SS.
func (s Snapshot) Configured() string {
	return timeutil.SecondsToTimeString(s.ConfiguredSeconds)
}
