package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Op is a bitmask of directory entry changes.
type Op uint32

const (
	// CloseWrite reports a file opened for writing was closed.
	CloseWrite Op = 1 << iota
	// MovedTo reports an entry renamed into the directory.
	MovedTo
	// MovedFrom reports an entry renamed out of the directory.
	MovedFrom
	// Create reports a new entry.
	Create
	// Delete reports a removed entry.
	Delete
	// Modify reports a write to an entry.
	Modify
	// Overflow reports the kernel queue dropped events.
	Overflow
)

var opNames = []struct {
	op   Op
	name string
}{
	{CloseWrite, "CLOSE_WRITE"},
	{MovedTo, "MOVED_TO"},
	{MovedFrom, "MOVED_FROM"},
	{Create, "CREATE"},
	{Delete, "DELETE"},
	{Modify, "MODIFY"},
	{Overflow, "OVERFLOW"},
}

// Has reports whether any bit of other is set in op.
func (op Op) Has(other Op) bool { return op&other != 0 }

func (op Op) String() string {
	if op == 0 {
		return "NONE"
	}
	parts := make([]string, 0, 2)
	for _, entry := range opNames {
		if op&entry.op != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// Event is a single change observed in the watched directory.
type Event struct {
	Path   string
	Op     Op
	Cookie uint32
	Name   string
}

// Backend selects the notification implementation.
type Backend string

const (
	BackendInotify  Backend = "inotify"
	BackendFsnotify Backend = "fsnotify"
)

const (
	defaultReadBufferSize  = 8192
	defaultMaxReadAttempts = 100
)

// Options tunes watcher construction. Zero values fall back to defaults.
type Options struct {
	Backend         Backend
	ReadBufferSize  int
	MaxReadAttempts int
}

var (
	// ErrSetup marks failures to establish the watch.
	ErrSetup = errors.New("watch setup failed")
	// ErrBufferExhausted is returned when an inotify read still does not fit
	// after the configured number of buffer enlargements.
	ErrBufferExhausted = errors.New("inotify read buffer exhausted")
	// ErrClosed is returned by Poll after Close.
	ErrClosed = errors.New("watcher closed")
)

type backend interface {
	poll(ctx context.Context, timeout time.Duration) ([]Event, error)
	close() error
}

// Watcher delivers events for one directory.
type Watcher struct {
	path string
	mask Op
	impl backend

	closeOnce sync.Once
	closed    bool
	closeErr  error
}

// Open starts watching path for the ops in mask.
func Open(path string, mask Op, opts Options) (*Watcher, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", ErrSetup)
	}
	if mask == 0 {
		return nil, fmt.Errorf("%w: empty event mask", ErrSetup)
	}
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = defaultReadBufferSize
	}
	if opts.MaxReadAttempts <= 0 {
		opts.MaxReadAttempts = defaultMaxReadAttempts
	}

	var (
		impl backend
		err  error
	)
	switch opts.Backend {
	case "", BackendInotify:
		impl, err = openInotify(path, mask, opts)
	case BackendFsnotify:
		impl, err = openFsnotify(path)
	default:
		return nil, fmt.Errorf("%w: unsupported backend %q", ErrSetup, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return &Watcher{path: path, mask: mask, impl: impl}, nil
}

// Path returns the watched directory.
func (w *Watcher) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Poll waits up to timeout for events and returns those ready at wake-up.
// A negative timeout blocks until an event arrives or ctx is done; zero
// drains without blocking. Overflow events are always reported.
func (w *Watcher) Poll(ctx context.Context, timeout time.Duration) ([]Event, error) {
	if w == nil || w.impl == nil || w.closed {
		return nil, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := w.impl.poll(ctx, timeout)
	if err != nil {
		return nil, err
	}
	events := raw[:0]
	for _, ev := range raw {
		ev.Op &= w.mask | Overflow
		if ev.Op == 0 {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Close releases the watch. Repeated calls return the first result.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() {
		w.closed = true
		if w.impl != nil {
			w.closeErr = w.impl.close()
		}
	})
	return w.closeErr
}
