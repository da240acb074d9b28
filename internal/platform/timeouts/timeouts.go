// Package timeouts defines shared timeout constants used across the tools.
package timeouts

import "time"

// TelemetryShutdown limits how long a command waits for the trace exporter
// to flush before exiting.
const TelemetryShutdown = 5 * time.Second

// SQLiteBusy is how long a SQLite connection waits on a locked database
// before failing.
const SQLiteBusy = 5 * time.Second

// SQLiteBusyMillis is SQLiteBusy in the unit the _busy_timeout DSN option takes.
func SQLiteBusyMillis() int64 {
	return SQLiteBusy.Milliseconds()
}
