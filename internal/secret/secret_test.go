package secret_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"askcache/internal/secret"
)

func TestFileSourceTrimsSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".password.cache")
	if err := os.WriteFile(path, []byte("  hunter2\n\n"), 0o600); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	res := secret.NewFileSource(path).Fetch(context.Background())
	if res.Kind != secret.Found {
		t.Fatalf("expected Found, got %s (%v)", res.Kind, res.Err)
	}
	if string(res.Secret) != "hunter2" {
		t.Fatalf("unexpected secret %q", res.Secret)
	}
}

func TestFileSourceEmptySecretIsFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".password.cache")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	res := secret.NewFileSource(path).Fetch(context.Background())
	if res.Kind != secret.Found || len(res.Secret) != 0 {
		t.Fatalf("expected empty Found secret, got %s %q", res.Kind, res.Secret)
	}
}

func TestFileSourceMissingIsSkip(t *testing.T) {
	res := secret.NewFileSource(filepath.Join(t.TempDir(), "absent")).Fetch(context.Background())
	if res.Kind != secret.Skip {
		t.Fatalf("expected Skip, got %s", res.Kind)
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist cause, got %v", res.Err)
	}
}

func TestFileSourceUnreadableIsSkip(t *testing.T) {
	res := secret.NewFileSource(t.TempDir()).Fetch(context.Background())
	if res.Kind != secret.Skip || res.Err == nil {
		t.Fatalf("expected Skip with cause for directory path, got %s %v", res.Kind, res.Err)
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[secret.Kind]string{secret.Found: "found", secret.Skip: "skip", secret.Cancel: "cancel"} {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
