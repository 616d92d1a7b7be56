// Package daemon coordinates the long-running askcache process.
//
// It enforces single-instance execution with a flock-based lock, opens the
// directory watcher on the request directory, and runs the dispatcher until
// the context ends. Request handling itself lives in the dispatcher; the
// daemon only owns startup and teardown.
package daemon
