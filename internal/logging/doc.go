// Package logging assembles structured slog loggers and formatting helpers used
// across askcache components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers that tag log lines with the component name and
// the per-request correlation id. WarnWithContext enforces the event_type,
// error_hint, and impact fields on warnings so every delivery failure tells
// the operator what broke and what to check. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
