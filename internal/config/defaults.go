package config

import "time"

// Default value constants.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLookupTimeout  = 10 * time.Second
	DefaultLookupCacheTTL = 15 * time.Minute

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "famscope:"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "famscope-reports"
	DefaultPresignExpiry = 1 * time.Hour

	DefaultPageCapacity = 15

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultAgeBrackets returns the default age bracket bounds: <18, 18-59, 60+.
func DefaultAgeBrackets() []int { return []int{18, 60} }

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.  It must run after unmarshalling and before
// Validate() so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// Server
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		// Report generation streams a PDF; give writes more headroom than
		// reads.
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Lookup
	if cfg.Lookup.Timeout == 0 {
		cfg.Lookup.Timeout = DefaultLookupTimeout
	}
	if cfg.Lookup.CacheTTL == 0 {
		cfg.Lookup.CacheTTL = DefaultLookupCacheTTL
	}

	// Redis
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// MinIO
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// Report
	if cfg.Report.PageCapacity == 0 {
		cfg.Report.PageCapacity = DefaultPageCapacity
	}
	if len(cfg.Report.AgeBrackets) == 0 {
		cfg.Report.AgeBrackets = DefaultAgeBrackets()
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
