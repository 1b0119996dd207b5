package timer

import (
	"time"

	"github.com/google/uuid"

	"github.com/multitimer/multitimer-go/pkg/timeutil"
)

// DefaultAlarmSound is used when a record names no sound.
const DefaultAlarmSound = "alarm"

// Record is the persisted part of a timer.
type Record struct {
	ID                string    `json:"id"`
	Label             string    `json:"label"`
	ConfiguredSeconds int       `json:"configured_seconds"`
	Color             Color     `json:"color"`
	AlarmSoundName    string    `json:"alarm_sound_name"`
	DateAdded         time.Time `json:"date_added"`
}

// NewRecord returns a record with a fresh id.
func NewRecord(label string, seconds int, color Color, added time.Time) Record {
	return Record{
		ID:                uuid.NewString(),
		Label:             label,
		ConfiguredSeconds: timeutil.Clamp(seconds),
		Color:             color,
		AlarmSoundName:    DefaultAlarmSound,
		DateAdded:         added,
	}
}

// normalize fills defaults and clamps out-of-range values.
func (r Record) normalize(now time.Time) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.DateAdded.IsZero() {
		r.DateAdded = now
	}
	if !r.Color.Valid() {
		r.Color = Palette[0]
	}
	if r.AlarmSoundName == "" {
		r.AlarmSoundName = DefaultAlarmSound
	}
	r.ConfiguredSeconds = timeutil.Clamp(r.ConfiguredSeconds)
	return r
}
