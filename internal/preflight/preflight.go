package preflight

import (
	"path/filepath"

	"askcache/internal/config"
	"askcache/internal/delivery"
)

// Result reports the outcome of a single preflight check. Optional checks
// describe conditions the daemon tolerates at runtime.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes the checks that apply to cfg with the given delivery mode.
func RunAll(cfg *config.Config, mode delivery.Mode) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Request directory", cfg.Paths.AskDir, AccessRead),
		CheckDirectoryAccess("Lock directory", filepath.Dir(cfg.Paths.LockFile), AccessWrite),
	}

	// The cache is written by early boot and may legitimately be absent.
	cache := CheckReadableFile("Password cache", cfg.Paths.PasswordCache)
	cache.Optional = true
	results = append(results, cache)

	if mode == delivery.ModePolkit {
		results = append(results, CheckBinaries([]Requirement{
			{Name: "pkexec", Command: cfg.Delivery.PkexecBinary, Description: "Runs the reply helper with elevated rights"},
			{Name: "Reply helper", Command: cfg.Delivery.ReplyBinary, Description: "Writes the reply to the request socket"},
		})...)
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
