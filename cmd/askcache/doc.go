// Command askcache answers systemd password prompts from a cached secret.
//
// `askcache run` starts the daemon in the foreground; it is meant to be
// launched by a systemd unit early in boot. `askcache list` shows pending
// requests and `askcache config` manages the configuration file.
package main
