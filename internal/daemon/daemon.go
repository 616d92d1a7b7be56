package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"askcache/internal/clock"
	"askcache/internal/config"
	"askcache/internal/delivery"
	"askcache/internal/dispatcher"
	"askcache/internal/logging"
	"askcache/internal/procprobe"
	"askcache/internal/secret"
	"askcache/internal/watch"
)

// ErrAlreadyRunning is returned when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another askcache instance is already running")

// Components are the collaborators handed to the dispatcher.
type Components struct {
	Source  secret.Source
	Channel delivery.Channel
	Prober  procprobe.Prober
	Clock   clock.Clock
}

// Daemon answers requests until its context ends and enforces
// single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	components Components

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, components Components) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if components.Source == nil || components.Channel == nil {
		return nil, errors.New("daemon requires a secret source and a delivery channel")
	}
	if components.Prober == nil {
		components.Prober = procprobe.Signal{}
	}
	if components.Clock == nil {
		components.Clock = clock.Monotonic{}
	}

	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		components: components,
		lockPath:   cfg.Paths.LockFile,
		lock:       flock.New(cfg.Paths.LockFile),
	}, nil
}

// Run acquires the lock, watches the request directory, and dispatches
// requests until ctx is cancelled. Cancellation is a clean stop and returns
// nil.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if it is stale"),
				logging.String(logging.FieldImpact, "next start may report a running instance"),
			)
		}
	}()

	watcher, err := watch.Open(d.cfg.Paths.AskDir, dispatcher.WatchMask, watch.Options{
		Backend:         watch.Backend(d.cfg.Watcher.Backend),
		ReadBufferSize:  d.cfg.Watcher.ReadBufferSize,
		MaxReadAttempts: d.cfg.Watcher.MaxReadAttempts,
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", d.cfg.Paths.AskDir, err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			d.logger.Debug("close watcher", logging.Error(err))
		}
	}()

	disp := dispatcher.New(watcher,
		d.components.Source,
		d.components.Channel,
		d.components.Prober,
		d.components.Clock,
		d.logger,
		dispatcher.Options{
			PollInterval:  d.cfg.PollInterval(),
			MessageLimit:  d.cfg.Cache.MessageLimit,
			MessageRetain: d.cfg.Cache.MessageRetain,
		},
	)

	d.logger.Info("askcache daemon started",
		logging.String("lock", d.lockPath),
		logging.String("ask_dir", d.cfg.Paths.AskDir),
		logging.String("delivery_mode", d.cfg.Delivery.Mode),
		logging.String("watcher_backend", d.cfg.Watcher.Backend),
	)

	err = disp.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		d.logger.Info("askcache daemon stopped")
		return nil
	}
	return err
}

// Running reports whether Run is in progress.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
