package main

import (
	"path/filepath"
	"testing"

	"askcache/internal/preflight"
)

func TestCheckPassesWithDefaultsInTempDirs(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Request directory")
	requireContains(t, out, "Delivery mode: socket")
	requireContains(t, out, "warn")
}

func TestCheckFailsForMissingRequestDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths.AskDir = filepath.Join(t.TempDir(), "missing")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "fail")
	requireContains(t, err.Error(), "1 required check(s) failed")
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		result preflight.Result
		want   string
	}{
		{preflight.Result{Passed: true}, "ok"},
		{preflight.Result{Optional: true}, "warn"},
		{preflight.Result{}, "fail"},
	}
	for _, tc := range cases {
		if got := checkStatus(tc.result); got != tc.want {
			t.Fatalf("checkStatus(%+v) = %q, want %q", tc.result, got, tc.want)
		}
	}
}
