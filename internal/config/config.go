// Package config defines the application configuration and its loader.
package config

import (
	"fmt"
	"time"

	"github.com/andrewtarzia/stk/pkg/errors"
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Assembly AssemblyConfig `mapstructure:"assembly"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// DatabaseConfig controls the optional Postgres store for constructed
// molecules.
type DatabaseConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Name     string        `mapstructure:"name"`
	SSLMode  string        `mapstructure:"sslmode"`
	MaxConns int32         `mapstructure:"max_conns"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DSN returns the connection string for pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// CacheConfig controls the optional Redis molecule cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WorkerConfig controls batch-build parallelism.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// AssemblyConfig controls build defaults.
type AssemblyConfig struct {
	// Scale spaces layout sites to fit typical building blocks.
	Scale float64 `mapstructure:"scale"`

	// Seed fixes the random source for reproducible builds; 0 means
	// time-seeded.
	Seed int64 `mapstructure:"seed"`
}

// Validate checks the configuration for values the application cannot
// run with.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CodeConfigError, "invalid log level").WithDetail(c.Log.Level)
	}
	if c.Worker.Concurrency < 1 {
		return errors.New(errors.CodeConfigError, "worker concurrency must be at least 1").
			WithDetail(fmt.Sprintf("concurrency=%d", c.Worker.Concurrency))
	}
	if c.Assembly.Scale <= 0 {
		return errors.New(errors.CodeConfigError, "assembly scale must be positive").
			WithDetail(fmt.Sprintf("scale=%g", c.Assembly.Scale))
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return errors.New(errors.CodeConfigError, "database enabled but host is empty")
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return errors.New(errors.CodeConfigError, "cache enabled but addr is empty")
	}
	return nil
}
