// Package naslconfig loads naslrun's runtime configuration with
// viper, following the teacher's internal/cli/config.Load pattern
// (SetDefault/SetConfigName/AutomaticEnv, then Unmarshal into a typed
// struct).
package naslconfig

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is naslrun's runtime configuration (SPEC_FULL's Configuration
// section): feed root, OpenVAS version string advertised to scripts,
// storage backend selection, retry budget, and the admin/watch
// surfaces' own settings.
type Config struct {
	FeedRoot       string `mapstructure:"feed_root"`
	OpenVASVersion string `mapstructure:"openvas_version"`
	MaxRetries     int    `mapstructure:"max_retries"`

	Storage StorageConfig `mapstructure:"storage"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// StorageConfig selects and configures the Storage backend (spec §6:
// "redis and filesystem storage backends").
type StorageConfig struct {
	Backend string       `mapstructure:"backend"` // "sqlite" | "redis"
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	Redis   RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	DB   int    `mapstructure:"db"`
}

// AdminConfig configures the admin HTTP server (internal/nasladmin).
type AdminConfig struct {
	BindAddr   string `mapstructure:"bind_addr"`
	JWTSignKey string `mapstructure:"jwt_sign_key"`
}

// WatchConfig configures naslwatch's debounce window.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Load reads naslrun.yaml (or naslrun.yml) from the current directory,
// applying defaults and environment-variable overrides, mirroring the
// teacher's internal/cli/config.Load exactly in shape.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("openvas_version", "dev")
	v.SetDefault("max_retries", 3)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.sqlite.path", "naslrun.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("admin.bind_addr", ":8787")
	v.SetDefault("watch.debounce", 250*time.Millisecond)

	v.SetConfigName("naslrun")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	switch cfg.Storage.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("storage.backend must be 'sqlite' or 'redis', got: %s", cfg.Storage.Backend)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got: %d", cfg.MaxRetries)
	}
	return nil
}
