package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/andrewtarzia/stk/pkg/errors"
)

const envPrefix = "STK"

// Load reads configuration from an optional file plus STK_* environment
// variables, applies defaults and validates the result.  An empty path
// loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.CodeConfigError, "failed to read config file").
				WithDetail(path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigError, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch reloads the configuration whenever the file at path changes.
// Reloads that fail validation are dropped; onChange only sees valid
// configurations.
func Watch(path string, onChange func(*Config)) error {
	if path == "" {
		return errors.New(errors.CodeConfigError, "watch requires a config file path")
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.CodeConfigError, "failed to read config file").
			WithDetail(path)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		if err := cfg.Validate(); err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.development", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", ":9090")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "stk")
	v.SetDefault("database.name", "stk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.timeout", 5*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("worker.concurrency", 4)

	v.SetDefault("assembly.scale", 8.0)
	v.SetDefault("assembly.seed", 0)
}
