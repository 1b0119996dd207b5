// Package store persists timer records.
//
// Three backends share the Backend interface:
//
//	MemoryStore  records kept in memory, lost on exit
//	JSONStore    a single versioned JSON file
//	SQLiteStore  a SQLite database (github.com/mattn/go-sqlite3)
//
// Only the persisted fields of a timer are stored; countdown progress is
// not.
package store
