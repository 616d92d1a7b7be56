// Package config loads, normalizes, and validates askcache configuration.
//
// It supplies defaults matching a stock systemd layout, expands user paths
// (including tilde shortcuts), reads TOML files, and rejects settings the
// daemon cannot act on. Command-line overrides such as --pk and --debug are
// applied on top of the loaded Config by the caller.
package config
