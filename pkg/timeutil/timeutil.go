package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Range of valid second counts.
const (
	// MinSeconds is the smallest representable second count.
	MinSeconds = 0

	// MaxSeconds is the largest representable second count (99:59:59).
	MaxSeconds = 359999
)

// Clamp coerces seconds into [MinSeconds, MaxSeconds].
func Clamp(seconds int) int {
	return max(min(seconds, MaxSeconds), MinSeconds)
}

// bound limits a single component so the weighted sum cannot overflow.
func bound(v int) int {
	return max(min(v, MaxSeconds), -MaxSeconds)
}

// TimeToSeconds converts an hour/minute/second triple into a clamped second count.
// Components are not required to be normalized (90 minutes is accepted).
func TimeToSeconds(hour, minute, second int) int {
	seconds := bound(hour)*3600 + bound(minute)*60 + bound(second)
	return Clamp(seconds)
}

// TimeToSecondsText is TimeToSeconds for numeric text; unparsable components count as 0.
func TimeToSecondsText(hour, minute, second string) int {
	return TimeToSeconds(atoi(hour), atoi(minute), atoi(second))
}

func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// SecondsToTime splits a second count into hours, minutes and seconds.
func SecondsToTime(seconds int) (hour, minute, second int) {
	hour = seconds / 3600
	minute = seconds / 60 % 60
	second = seconds % 60
	return hour, minute, second
}

// SecondsToTimeString formats a second count as HH:MM:SS.
func SecondsToTimeString(seconds int) string {
	h, m, s := SecondsToTime(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
