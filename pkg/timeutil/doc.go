// Package timeutil converts between second counts and hour/minute/second
// triples and formats them for display.
//
// All values are clamped to [MinSeconds, MaxSeconds] (00:00:00 to 99:59:59).
// Nothing in this package returns an error for out-of-range input; values are
// coerced into range instead.
package timeutil
