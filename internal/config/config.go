// Package config defines all configuration structures for the famscope
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// PublicBaseURL is the externally visible base URL of this service, used
	// to build the download link returned by the consultation endpoint.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// LookupConfig holds parameters for the external family-tree lookup API.
type LookupConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// StrictDNI requires the inbound document id to be exactly 8 numeric
	// digits.  With strictness off only presence is enforced.
	StrictDNI bool `mapstructure:"strict_dni"`

	// CacheTTL is how long a lookup response is kept in the redis response
	// cache.  Zero disables response caching even when redis is enabled.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig holds redis connection parameters for the lookup response
// cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters for the
// generated-report artifact cache.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// ReportConfig holds report assembly parameters.
type ReportConfig struct {
	// PageCapacity is the maximum number of relatives listed on one branch
	// page.
	PageCapacity int `mapstructure:"page_capacity"`

	// AgeBrackets are the ascending upper bounds of the age brackets used in
	// the statistics section.  The default [18, 60] yields the brackets
	// <18, 18-59, 60+.
	AgeBrackets []int `mapstructure:"age_brackets"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Config is the root configuration structure for the service.  Every
// component reads its settings from the relevant sub-struct; there is no
// ambient global configuration state.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Redis  RedisConfig  `mapstructure:"redis"`
	MinIO  MinIOConfig  `mapstructure:"minio"`
	Report ReportConfig `mapstructure:"report"`
	Log    LogConfig    `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Lookup
	if c.Lookup.BaseURL == "" {
		return fmt.Errorf("config: lookup.base_url is required")
	}
	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("config: lookup.timeout must be positive, got %s", c.Lookup.Timeout)
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
	}

	// MinIO
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio.enabled is true")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required when minio.enabled is true")
		}
	}

	// Report
	if c.Report.PageCapacity < 1 {
		return fmt.Errorf("config: report.page_capacity must be ≥ 1, got %d", c.Report.PageCapacity)
	}
	if len(c.Report.AgeBrackets) == 0 {
		return fmt.Errorf("config: report.age_brackets must contain at least one bound")
	}
	prev := 0
	for i, b := range c.Report.AgeBrackets {
		if b <= prev {
			return fmt.Errorf("config: report.age_brackets must be strictly ascending positive bounds, got %v at index %d", b, i)
		}
		prev = b
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
