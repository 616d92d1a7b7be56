package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fsnotifyBackend adapts fsnotify's channel API to Poll. fsnotify has no
// close-write notification, so a Create is reported as MovedTo: systemd
// publishes request files by renaming a complete temporary file into place.
type fsnotifyBackend struct {
	path    string
	watcher *fsnotify.Watcher
}

func openFsnotify(path string) (backend, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: fsnotify: %w", ErrSetup, err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: fsnotify add %s: %w", ErrSetup, path, err)
	}
	return &fsnotifyBackend{path: path, watcher: w}, nil
}

func (b *fsnotifyBackend) poll(ctx context.Context, timeout time.Duration) ([]Event, error) {
	var events []Event
	if timeout != 0 {
		var expired <-chan time.Time
		if timeout > 0 {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			expired = timer.C
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-expired:
			return nil, nil
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return nil, ErrClosed
			}
			events = b.appendEvent(events, ev)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return nil, ErrClosed
			}
			if events, err = b.appendError(events, err); err != nil {
				return nil, err
			}
		}
	}

	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return events, nil
			}
			events = b.appendEvent(events, ev)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return events, nil
			}
			var appendErr error
			if events, appendErr = b.appendError(events, err); appendErr != nil {
				return nil, appendErr
			}
		default:
			return events, nil
		}
	}
}

func (b *fsnotifyBackend) appendEvent(events []Event, ev fsnotify.Event) []Event {
	var op Op
	if ev.Has(fsnotify.Create) {
		op |= MovedTo
	}
	if ev.Has(fsnotify.Write) {
		op |= Modify
	}
	if ev.Has(fsnotify.Remove) {
		op |= Delete
	}
	if ev.Has(fsnotify.Rename) {
		op |= MovedFrom
	}
	if op == 0 {
		return events
	}
	return append(events, Event{Path: b.path, Op: op, Name: filepath.Base(ev.Name)})
}

func (b *fsnotifyBackend) appendError(events []Event, err error) ([]Event, error) {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		return append(events, Event{Path: b.path, Op: Overflow}), nil
	}
	return events, fmt.Errorf("fsnotify: %w", err)
}

func (b *fsnotifyBackend) close() error {
	return b.watcher.Close()
}
