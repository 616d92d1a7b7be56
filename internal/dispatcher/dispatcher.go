package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"askcache/internal/askfile"
	"askcache/internal/clock"
	"askcache/internal/delivery"
	"askcache/internal/logging"
	"askcache/internal/procprobe"
	"askcache/internal/secret"
	"askcache/internal/watch"
)

const (
	// AvailableOps mark a request file as complete and readable.
	AvailableOps = watch.CloseWrite | watch.MovedTo
	// RemovedOps end a request file's identity.
	RemovedOps = watch.Delete | watch.MovedFrom
	// WatchMask is the event set the dispatcher needs from its watcher.
	WatchMask = AvailableOps | RemovedOps

	defaultPollInterval  = 10 * time.Second
	defaultMessageLimit  = 50
	defaultMessageRetain = 20
)

// Watcher supplies directory events.
type Watcher interface {
	Path() string
	Poll(ctx context.Context, timeout time.Duration) ([]watch.Event, error)
}

// Options tunes a Dispatcher. Zero values fall back to defaults.
type Options struct {
	PollInterval  time.Duration
	MessageLimit  int
	MessageRetain int
}

// Dispatcher answers request files as they appear.
type Dispatcher struct {
	watcher Watcher
	source  secret.Source
	channel delivery.Channel
	prober  procprobe.Prober
	clock   clock.Clock
	logger  *slog.Logger

	pollInterval time.Duration

	processed map[string]struct{}
	messages  *messageCache
	pending   []watch.Event
}

// New builds a dispatcher around its collaborators.
func New(
	w Watcher,
	source secret.Source,
	channel delivery.Channel,
	prober procprobe.Prober,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) *Dispatcher {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Dispatcher{
		watcher:      w,
		source:       source,
		channel:      channel,
		prober:       prober,
		clock:        clk,
		logger:       logging.NewComponentLogger(logger, "dispatcher"),
		pollInterval: opts.PollInterval,
		processed:    make(map[string]struct{}),
		messages:     newMessageCache(opts.MessageLimit, opts.MessageRetain),
	}
}

// Run seeds the queue with files already present and processes events until
// ctx is done or a fatal error occurs.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.Seed(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Step(ctx); err != nil {
			return err
		}
	}
}

// Seed queues a synthetic availability event for every entry already in the
// watched directory, so requests written before the watch started are
// handled like new ones.
func (d *Dispatcher) Seed() error {
	entries, err := os.ReadDir(d.watcher.Path())
	if err != nil {
		return fmt.Errorf("enumerate request directory: %w", err)
	}
	for _, entry := range entries {
		d.pending = append(d.pending, watch.Event{
			Path: d.watcher.Path(),
			Op:   AvailableOps,
			Name: entry.Name(),
		})
	}
	d.logger.Debug("queued existing directory entries", logging.Int("count", len(entries)))
	return nil
}

// Step handles at most one event, polling the watcher first when the queue
// is empty. A non-nil error is fatal.
func (d *Dispatcher) Step(ctx context.Context) error {
	if len(d.pending) == 0 {
		events, err := d.watcher.Poll(ctx, d.pollInterval)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("poll request directory: %w", err)
		}
		d.pending = append(d.pending, events...)
	}
	if len(d.pending) == 0 {
		return nil
	}

	ev := d.pending[0]
	d.pending[0] = watch.Event{}
	d.pending = d.pending[1:]
	return d.handle(ctx, ev)
}

func (d *Dispatcher) handle(ctx context.Context, ev watch.Event) error {
	if ev.Op.Has(watch.Overflow) {
		logging.WarnWithContext(d.logger, "watcher queue overflowed, rescanning request directory", "watch_overflow",
			logging.String(logging.FieldErrorHint, "requests are re-read from the directory"),
			logging.String(logging.FieldImpact, "removal events may have been lost"),
		)
		return d.Seed()
	}
	if !askfile.IsRequestName(ev.Name) {
		return nil
	}

	if ev.Op.Has(RemovedOps) {
		if _, ok := d.processed[ev.Name]; ok {
			d.logger.Debug("detected processed request file removal", logging.String(logging.FieldRequest, ev.Name))
			delete(d.processed, ev.Name)
		}
		return nil
	}
	if !ev.Op.Has(AvailableOps) {
		return nil
	}
	if _, ok := d.processed[ev.Name]; ok {
		d.logger.Debug("skipping event for already processed request file",
			logging.String(logging.FieldRequest, ev.Name),
			logging.String("op", ev.Op.String()),
		)
		return nil
	}

	d.processed[ev.Name] = struct{}{}
	return d.process(ctx, ev)
}

func (d *Dispatcher) process(ctx context.Context, ev watch.Event) error {
	ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, d.logger).With(logging.String(logging.FieldRequest, ev.Name))
	logger.Debug("processing request file")

	dir := ev.Path
	if dir == "" {
		dir = d.watcher.Path()
	}
	req, err := askfile.Load(dir, ev.Name)
	if err != nil {
		logger.Debug("failed to read or parse request file, skipping", logging.Error(err))
		return nil
	}
	logger = logger.With(logging.Int(logging.FieldPID, req.PID))

	if req.Message != "" && d.messages.contains(req.Message) {
		logger.Debug("repeated request with an answered message, skipping", logging.String("message", req.Message))
		return nil
	}

	alive, err := d.prober.Alive(req.PID)
	if err != nil {
		return fmt.Errorf("request %s: %w", ev.Name, err)
	}
	if !alive {
		logger.Debug("requesting process is gone, skipping")
		return nil
	}

	// Fetch, the withdrawal scan and delivery run to completion even if
	// shutdown starts meanwhile.
	opCtx := context.WithoutCancel(ctx)

	res := d.source.Fetch(opCtx)
	switch res.Kind {
	case secret.Found:
	case secret.Cancel:
		logger.Debug("secret source asked to cancel the request")
	default:
		attrs := []logging.Attr{}
		if res.Err != nil {
			attrs = append(attrs, logging.Error(res.Err))
		}
		logger.Debug("no cached secret, skipping request", logging.Args(attrs...)...)
		return nil
	}

	now, err := d.clock.NowMicros()
	if err != nil {
		return fmt.Errorf("request %s: %w", ev.Name, err)
	}
	if req.Expired(now) {
		logger.Debug("request has expired, skipping",
			logging.Uint64("not_after", req.NotAfter),
			logging.Uint64("now", now),
		)
		return nil
	}

	withdrawn, err := d.withdrawn(opCtx, ev.Name)
	if err != nil {
		return err
	}
	if withdrawn {
		logger.Debug("request file removed before reply, skipping")
		return nil
	}

	if err := d.channel.Deliver(opCtx, req.Socket, res); err != nil {
		d.logDeliveryFailure(logger, req, err)
		return nil
	}

	if req.Message != "" {
		d.messages.add(req.Message)
	}
	logger.Debug("successfully processed request",
		logging.String(logging.FieldSocket, req.Socket),
		logging.String("result", res.Kind.String()),
	)
	return nil
}

// withdrawn drains whatever the watcher has ready into the queue and reports
// whether a removal of name is among the queued events. Queued events are
// kept in order; the removal itself is processed later like any other.
func (d *Dispatcher) withdrawn(ctx context.Context, name string) (bool, error) {
	fresh, err := d.watcher.Poll(ctx, 0)
	if err != nil {
		return false, fmt.Errorf("poll request directory: %w", err)
	}
	d.pending = append(d.pending, fresh...)
	for _, ev := range d.pending {
		if ev.Name == name && ev.Op.Has(RemovedOps) {
			return true, nil
		}
	}
	return false, nil
}

func (d *Dispatcher) logDeliveryFailure(logger *slog.Logger, req *askfile.Request, err error) {
	var helperErr *delivery.HelperError
	if errors.As(err, &helperErr) {
		logging.WarnWithContext(logger, "failed to authorize or send reply through helper", "helper_delivery_failed",
			logging.Int("exit_code", helperErr.ExitCode),
			logging.String("helper_output", helperErr.Output),
			logging.String(logging.FieldSocket, req.Socket),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the polkit policy for the reply binary"),
		)
		return
	}
	logging.WarnWithContext(logger, "error sending password", "socket_delivery_failed",
		logging.String(logging.FieldSocket, req.Socket),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check that the agent may write to the request socket"),
	)
}

// Processed reports whether name is currently marked as handled.
func (d *Dispatcher) Processed(name string) bool {
	_, ok := d.processed[name]
	return ok
}

// CachedMessages returns the number of remembered message texts.
func (d *Dispatcher) CachedMessages() int {
	return d.messages.len()
}

// Pending returns the number of queued events.
func (d *Dispatcher) Pending() int {
	return len(d.pending)
}
