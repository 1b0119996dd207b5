// Package sound holds the alarm sound catalog and the playback channel.
//
// A Catalog is the fixed, ordered list of alarm sounds. Each sound's machine
// name doubles as the name of its audio resource; building a Catalog
// resolves every sound through an AudioService, so a missing asset is
// reported once, at startup, rather than when an alarm fires.
//
// Player is the single playback channel shared by all timers. Starting a
// sound stops whichever sound was playing before it.
package sound
