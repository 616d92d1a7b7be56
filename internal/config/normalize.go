package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDelivery()
	c.Watcher.Backend = strings.ToLower(strings.TrimSpace(c.Watcher.Backend))
	if c.Watcher.Backend == "" {
		c.Watcher.Backend = defaultWatcherBackend
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AskDir, err = ExpandPath(strings.TrimSpace(c.Paths.AskDir)); err != nil {
		return fmt.Errorf("paths.ask_dir: %w", err)
	}
	if c.Paths.PasswordCache, err = ExpandPath(strings.TrimSpace(c.Paths.PasswordCache)); err != nil {
		return fmt.Errorf("paths.password_cache: %w", err)
	}
	if c.Paths.LockFile, err = ExpandPath(strings.TrimSpace(c.Paths.LockFile)); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeDelivery() {
	c.Delivery.Mode = strings.ToLower(strings.TrimSpace(c.Delivery.Mode))
	if c.Delivery.Mode == "" {
		c.Delivery.Mode = defaultDeliveryMode
	}
	c.Delivery.PkexecBinary = strings.TrimSpace(c.Delivery.PkexecBinary)
	c.Delivery.ReplyBinary = strings.TrimSpace(c.Delivery.ReplyBinary)
	if c.Delivery.ReplyBinary == "" {
		c.Delivery.ReplyBinary = defaultReplyBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
