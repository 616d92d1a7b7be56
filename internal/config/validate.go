package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.AskDir == "" {
		return errors.New("paths.ask_dir must be set")
	}
	if c.Paths.PasswordCache == "" {
		return errors.New("paths.password_cache must be set")
	}
	if c.Paths.LockFile == "" {
		return errors.New("paths.lock_file must be set")
	}
	return nil
}

func (c *Config) validateDelivery() error {
	switch c.Delivery.Mode {
	case "socket":
		return nil
	case "polkit":
		if c.Delivery.ReplyBinary == "" {
			return errors.New("delivery.reply_binary must be set when delivery.mode is polkit")
		}
		return nil
	default:
		return fmt.Errorf("delivery.mode: unsupported value %q (want socket or polkit)", c.Delivery.Mode)
	}
}

func (c *Config) validateWatcher() error {
	switch c.Watcher.Backend {
	case "inotify", "fsnotify":
	default:
		return fmt.Errorf("watcher.backend: unsupported value %q (want inotify or fsnotify)", c.Watcher.Backend)
	}
	if c.Watcher.PollIntervalSeconds <= 0 {
		return errors.New("watcher.poll_interval_seconds must be positive")
	}
	if c.Watcher.ReadBufferSize <= 0 {
		return errors.New("watcher.read_buffer_size must be positive")
	}
	if c.Watcher.MaxReadAttempts <= 0 {
		return errors.New("watcher.max_read_attempts must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MessageLimit <= 0 {
		return errors.New("cache.message_limit must be positive")
	}
	if c.Cache.MessageRetain <= 0 || c.Cache.MessageRetain > c.Cache.MessageLimit {
		return fmt.Errorf("cache.message_retain must be between 1 and cache.message_limit (%d)", c.Cache.MessageLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
