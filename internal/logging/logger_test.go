package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"askcache/internal/logging"
)

func newFileLogger(t *testing.T, opts logging.Options) (*slog.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "askcache.log")
	opts.OutputPaths = []string{logPath}
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerOmitsCallerForWarn(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "warn"})
	logger.Warn("message without caller")

	content := readLog(t, path)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in warn logs, got %q", content)
	}
	if !strings.Contains(content, "WARN message without caller") {
		t.Fatalf("unexpected console line %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "debug"})
	logger.Debug("message with caller")

	if content := readLog(t, path); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndFields(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "console", Level: "info"})
	component := logging.NewComponentLogger(logger, "dispatcher")
	component.Info("request answered",
		logging.String(logging.FieldRequest, "ask.1"),
		logging.String("message", "Disk passphrase"),
	)

	content := readLog(t, path)
	for _, want := range []string{"dispatcher: request answered", "request=ask.1", `message="Disk passphrase"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should be rendered as a prefix, got %q", content)
	}
}

func TestJSONLoggerFields(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json", Level: "info"})
	logger.Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected json record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestAutoFormatForFilesIsJSON(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "auto", Level: "warn"})
	logger.Warn("auto")
	if content := readLog(t, path); !strings.HasPrefix(content, "{") {
		t.Fatalf("expected json output for file destination, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToWarn(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelWarn,
		"invalid": slog.LevelWarn,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json", Level: "warn"})
	logging.WarnWithContext(logger, "delivery failed", "delivery_failed",
		logging.String(logging.FieldErrorHint, "check socket permissions"),
		logging.Error(errors.New("boom")),
	)

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "delivery_failed" {
		t.Fatalf("missing event type: %v", record)
	}
	if record[logging.FieldErrorHint] != "check socket permissions" {
		t.Fatalf("caller hint overwritten: %v", record)
	}
	if record[logging.FieldImpact] == nil {
		t.Fatalf("expected default impact: %v", record)
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json", Level: "info"})
	ctx := logging.WithCorrelationID(context.Background(), "req-xyz")

	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldCorrelationID] != "req-xyz" {
		t.Fatalf("expected correlation id, got %v", record)
	}

	if _, ok := logging.CorrelationIDFromContext(context.Background()); ok {
		t.Fatal("unexpected correlation id on empty context")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "ignored")
}
