package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"askcache/internal/clock"
	"askcache/internal/config"
	"askcache/internal/daemon"
	"askcache/internal/delivery"
	"askcache/internal/logging"
	"askcache/internal/preflight"
	"askcache/internal/procprobe"
	"askcache/internal/secret"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured level when set.
	LogLevel    string
	Development bool
	// ForcePolkit selects helper delivery regardless of configuration.
	ForcePolkit bool
}

// Run starts the askcache daemon and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := NewLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	sessionID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldSessionID, sessionID))

	deliveryOpts := DeliveryOptions(cfg, opts)
	channel, err := delivery.New(deliveryOpts)
	if err != nil {
		return fmt.Errorf("configure delivery: %w", err)
	}
	logPreflight(logger, cfg, deliveryOpts.Mode)

	d, err := daemon.New(cfg, logger, daemon.Components{
		Source:  secret.NewFileSource(cfg.Paths.PasswordCache),
		Channel: channel,
		Prober:  procprobe.Signal{},
		Clock:   clock.Monotonic{},
	})
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := d.Run(signalCtx); err != nil {
		if !errors.Is(err, daemon.ErrAlreadyRunning) {
			logging.ErrorWithContext(logger, "daemon stopped on fatal error", "daemon_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the request directory and process permissions"),
			)
		}
		return err
	}
	return nil
}

// NewLogger builds the process logger from configuration, honoring the
// level override in opts.
func NewLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	outputs := []string{"stderr"}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		outputs = append(outputs, file)
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: opts.Development,
	})
}

// DeliveryOptions maps configuration to delivery options.
func DeliveryOptions(cfg *config.Config, opts Options) delivery.Options {
	mode := delivery.Mode(cfg.Delivery.Mode)
	if opts.ForcePolkit {
		mode = delivery.ModePolkit
	}
	return delivery.Options{
		Mode:         mode,
		PkexecBinary: cfg.Delivery.PkexecBinary,
		ReplyBinary:  cfg.Delivery.ReplyBinary,
	}
}

func logPreflight(logger *slog.Logger, cfg *config.Config, mode delivery.Mode) {
	results := preflight.RunAll(cfg, mode)
	for _, result := range results {
		if result.Passed || result.Optional {
			logger.Debug("preflight check",
				logging.String("check", result.Name),
				logging.Bool("passed", result.Passed),
				logging.String("detail", result.Detail),
			)
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run `askcache check` for a full report"),
			logging.String(logging.FieldImpact, "requests may be left unanswered"),
		)
	}
}
