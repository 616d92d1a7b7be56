package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"askcache/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The request directory exists; the password cache does not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AskDir = filepath.Join(base, "ask-password")
	cfgVal.Paths.PasswordCache = filepath.Join(base, "password.cache")
	cfgVal.Paths.LockFile = filepath.Join(base, "askcache.lock")
	cfgVal.Watcher.PollIntervalSeconds = 1

	if err := os.MkdirAll(cfgVal.Paths.AskDir, 0o755); err != nil {
		t.Fatalf("mkdir ask dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPassword writes the cached secret the daemon will hand out.
func WithPassword(secret string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Paths.PasswordCache, []byte(secret), 0o600); err != nil {
			b.t.Fatalf("write password cache: %v", err)
		}
	}
}

// WithWatcherBackend selects the watcher backend.
func WithWatcherBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watcher.Backend = backend
	}
}

// WithStubbedHelper writes a reply helper script and configures polkit
// delivery through it. The script body runs under /bin/sh with the reply
// arguments in "$@"; pkexec is replaced by env so no privilege change happens.
func WithStubbedHelper(body string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "reply-password")
		script := []byte("#!/bin/sh\n" + body + "\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write stub helper: %v", err)
		}
		b.cfg.Delivery.Mode = "polkit"
		b.cfg.Delivery.PkexecBinary = "env"
		b.cfg.Delivery.ReplyBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.AskDir)
}
