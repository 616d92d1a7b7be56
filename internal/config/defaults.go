package config

const (
	defaultConfigPath          = "/etc/askcache/config.toml"
	defaultProjectConfig       = "askcache.toml"
	defaultAskDir              = "/run/systemd/ask-password"
	defaultPasswordCache       = "/run/initramfs/.password.cache"
	defaultLockFile            = "/run/askcache.lock"
	defaultDeliveryMode        = "socket"
	defaultPkexecBinary        = "pkexec"
	defaultReplyBinary         = "/lib/systemd/systemd-reply-password"
	defaultWatcherBackend      = "inotify"
	defaultPollIntervalSeconds = 10
	defaultReadBufferSize      = 8192
	defaultMaxReadAttempts     = 100
	defaultMessageLimit        = 50
	defaultMessageRetain       = 20
	defaultLogLevel            = "warn"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AskDir:        defaultAskDir,
			PasswordCache: defaultPasswordCache,
			LockFile:      defaultLockFile,
		},
		Delivery: Delivery{
			Mode:         defaultDeliveryMode,
			PkexecBinary: defaultPkexecBinary,
			ReplyBinary:  defaultReplyBinary,
		},
		Watcher: Watcher{
			Backend:             defaultWatcherBackend,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			ReadBufferSize:      defaultReadBufferSize,
			MaxReadAttempts:     defaultMaxReadAttempts,
		},
		Cache: Cache{
			MessageLimit:  defaultMessageLimit,
			MessageRetain: defaultMessageRetain,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
