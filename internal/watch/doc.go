// Package watch subscribes to change notifications for a single directory and
// hands them out through a polling interface.
//
// Two backends share the Watcher surface: the default Linux inotify backend
// built on golang.org/x/sys/unix, which preserves close-write events and
// rename cookies, and a portable fsnotify backend for hosts without inotify.
// Poll is meant to be driven by one goroutine; Close may be called at any
// point, including after a failed Open, and only releases resources once.
package watch
