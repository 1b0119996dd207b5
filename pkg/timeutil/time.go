package timeutil

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned by ParseTime for text that is not a time value.
var ErrInvalidTime = errors.New("invalid time")

// Time is a second count that always stays within [MinSeconds, MaxSeconds].
// The zero value is 00:00:00.
type Time struct {
	seconds int
}

// NewTime returns a Time holding the clamped second count.
func NewTime(seconds int) Time {
	return Time{seconds: Clamp(seconds)}
}

// Seconds returns the total second count.
func (t Time) Seconds() int { return t.seconds }

// Hour returns the hour component.
func (t Time) Hour() int { return t.seconds / 3600 }

// Minute returns the minute component.
func (t Time) Minute() int { return t.seconds / 60 % 60 }

// Second returns the second component.
func (t Time) Second() int { return t.seconds % 60 }

// Duration returns the value as a time.Duration.
func (t Time) Duration() time.Duration {
	return time.Duration(t.seconds) * time.Second
}

// Add returns t extended by seconds, saturating at MaxSeconds.
func (t Time) Add(seconds int) Time {
	return NewTime(t.seconds + bound(seconds))
}

// Subtract returns t shortened by seconds, saturating at MinSeconds.
func (t Time) Subtract(seconds int) Time {
	return NewTime(t.seconds - bound(seconds))
}

// Decrement returns t one second shorter, floored at zero.
func (t Time) Decrement() Time {
	return t.Subtract(1)
}

// FromDuration converts d to a Time, rounding to the nearest second.
// Rounding introduces at most half a second of error.
func FromDuration(d time.Duration) Time {
	secs := math.Round(d.Seconds())
	if secs > MaxSeconds {
		return NewTime(MaxSeconds)
	}
	return NewTime(int(secs))
}

// String formats the value as HH:MM:SS.
func (t Time) String() string {
	return SecondsToTimeString(t.seconds)
}

// ParseTime parses "HH:MM:SS", "MM:SS" or a bare second count.
// The result is clamped; text that is not made of integers is rejected.
func ParseTime(s string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return Time{}, ErrInvalidTime
	}

	values := make([]int, 3)
	offset := 3 - len(parts)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Time{}, ErrInvalidTime
		}
		values[offset+i] = v
	}

	return NewTime(TimeToSeconds(values[0], values[1], values[2])), nil
}
