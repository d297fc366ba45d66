// Package config loads and validates the gateway configuration using Viper.
//
// Configuration is layered: built-in defaults < YAML config file < environment
// variables. Environment variables use the FC_ prefix (e.g., FC_UPSTREAM_BASE_URL
// overrides upstream.base_url in the YAML). This layering allows the same binary
// to run with a config.yaml in local development and with pure environment
// variables in containerized deployments.
//
// The ENCRYPTION_KEY variable has no FC_ prefix because it may be injected by
// infrastructure tooling (e.g., Kubernetes secrets, Vault agent) that does not
// know the application-specific prefix and treats it as a generic secret name.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Table     TableConfig     `mapstructure:"table"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// UpstreamConfig holds connection settings for the remote Filmcounts platform API.
// BaseURL is the root of the platform REST API; all domain namespaces
// (/um, /org, /content, /project/budget, /at, /configs) hang off it.
type UpstreamConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SessionsConfig controls how per-session store state is kept and persisted.
type SessionsConfig struct {
	// Backend selects the persistence backend for store state: "local", "memory", "redis", or "postgres"
	Backend string `mapstructure:"backend"`
	// TTL is how long an idle session survives before the sweeper evicts it
	TTL time.Duration `mapstructure:"ttl"`
	// MaxSessions caps concurrently tracked sessions; 0 means unlimited
	MaxSessions int `mapstructure:"max_sessions"`
	// SweepInterval is how often the session sweeper job runs
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// EncryptionKey is the passphrase used to derive the AES key that encrypts
	// persisted access/refresh tokens at rest. May reference ${ENCRYPTION_KEY}.
	EncryptionKey string `mapstructure:"encryption_key"`
	// Local holds local filesystem backend settings
	Local LocalSessionsConfig `mapstructure:"local"`
}

// LocalSessionsConfig holds local filesystem session backend configuration
type LocalSessionsConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// DatabaseConfig holds PostgreSQL connection configuration for the "postgres"
// session backend. Unused when another backend is selected.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode"`
	MaxConnections     int    `mapstructure:"max_connections"`
	MinIdleConnections int    `mapstructure:"min_idle_connections"`
}

// GetDSN returns the PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig holds Redis connection configuration for the "redis" session backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
	TLS          TLSConfig          `mapstructure:"tls"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// TLSConfig holds TLS/HTTPS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled     bool            `mapstructure:"enabled"`
	ServiceName string          `mapstructure:"service_name"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	Profiling   ProfilingConfig `mapstructure:"profiling"`
}

// MetricsConfig holds Prometheus metrics configuration
type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	PrometheusPort int  `mapstructure:"prometheus_port"`
}

// ProfilingConfig holds profiling configuration
type ProfilingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// TableConfig holds defaults for the table engine.
type TableConfig struct {
	// DefaultPageSize is the number of rows per page when a client does not
	// specify one. The dashboard's cards historically render four rows.
	DefaultPageSize int `mapstructure:"default_page_size"`
	// MaxPageSize caps client-requested per-page values
	MaxPageSize int `mapstructure:"max_page_size"`
}

// bindEnvVars explicitly binds environment variables to config keys.
// This is necessary because AutomaticEnv() doesn't work well with nested structs during Unmarshal.
// viper.BindEnv only errors when called with zero keys; since every key here is a non-empty
// hardcoded string, any error indicates a programming bug and is surfaced to the caller.
func bindEnvVars(v *viper.Viper) error {
	keys := []string{
		// Server
		"server.host",
		"server.port",
		"server.base_url",
		"server.read_timeout",
		"server.write_timeout",

		// Upstream platform API
		"upstream.base_url",
		"upstream.request_timeout",

		// Sessions
		"sessions.backend",
		"sessions.ttl",
		"sessions.max_sessions",
		"sessions.sweep_interval",
		"sessions.encryption_key",
		"sessions.local.base_path",

		// Database
		"database.host",
		"database.port",
		"database.name",
		"database.user",
		"database.password",
		"database.ssl_mode",
		"database.max_connections",
		"database.min_idle_connections",

		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",

		// Security
		"security.cors.allowed_origins",
		"security.cors.allowed_methods",
		"security.rate_limiting.enabled",
		"security.rate_limiting.requests_per_minute",
		"security.rate_limiting.burst",
		"security.tls.enabled",
		"security.tls.cert_file",
		"security.tls.key_file",

		// Logging
		"logging.level",
		"logging.format",
		"logging.output",

		// Telemetry
		"telemetry.enabled",
		"telemetry.service_name",
		"telemetry.metrics.enabled",
		"telemetry.metrics.prometheus_port",
		"telemetry.profiling.enabled",
		"telemetry.profiling.port",

		// Table engine
		"table.default_page_size",
		"table.max_page_size",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env var %q: %w", key, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file path if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config.yaml in common locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/filmcounts")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment variables
	}

	// Enable environment variable support
	v.SetEnvPrefix("FC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind environment variables for nested structures
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	// Unmarshal configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand environment variables in sensitive fields
	cfg.Database.Password = expandEnv(cfg.Database.Password)
	cfg.Redis.Password = expandEnv(cfg.Redis.Password)
	cfg.Sessions.EncryptionKey = expandEnv(cfg.Sessions.EncryptionKey)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Watch re-reads the config file on change and invokes onChange with the freshly
// loaded configuration. Only hot-reloadable settings (currently logging level and
// format) should be applied by callers; everything else requires a restart.
// A broken edit is ignored so the server keeps running with the previous config.
func Watch(configPath string, onChange func(*Config)) error {
	if configPath == "" {
		return fmt.Errorf("config watch requires an explicit config file path")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file for watch: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Load(configPath)
		if err != nil {
			slog.Warn("ignoring config change: reload failed", "file", e.Name, "error", err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	// Upstream defaults
	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.request_timeout", "15s")

	// Sessions defaults
	v.SetDefault("sessions.backend", "local")
	v.SetDefault("sessions.ttl", "24h")
	v.SetDefault("sessions.max_sessions", 0)
	v.SetDefault("sessions.sweep_interval", "10m")
	v.SetDefault("sessions.encryption_key", "${ENCRYPTION_KEY}")
	v.SetDefault("sessions.local.base_path", "./sessions")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "filmcounts_gateway")
	v.SetDefault("database.user", "filmcounts")
	v.SetDefault("database.ssl_mode", "require")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_idle_connections", 5)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Security defaults
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.requests_per_minute", 60)
	v.SetDefault("security.rate_limiting.burst", 10)
	v.SetDefault("security.tls.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.service_name", "filmcounts-gateway")
	v.SetDefault("telemetry.metrics.enabled", true)
	v.SetDefault("telemetry.metrics.prometheus_port", 9090)
	v.SetDefault("telemetry.profiling.enabled", false)
	v.SetDefault("telemetry.profiling.port", 6060)

	// Table engine defaults
	v.SetDefault("table.default_page_size", 4)
	v.SetDefault("table.max_page_size", 100)
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Sessions.Backend {
	case "local", "memory", "redis", "postgres":
	default:
		return fmt.Errorf("sessions.backend must be one of 'local', 'memory', 'redis', 'postgres', got %q", c.Sessions.Backend)
	}

	if c.Sessions.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when sessions.backend is 'redis'")
	}

	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("sessions.ttl must be positive, got %v", c.Sessions.TTL)
	}

	if c.Table.DefaultPageSize < 1 {
		return fmt.Errorf("table.default_page_size must be at least 1, got %d", c.Table.DefaultPageSize)
	}
	if c.Table.MaxPageSize < c.Table.DefaultPageSize {
		return fmt.Errorf("table.max_page_size (%d) must not be smaller than table.default_page_size (%d)",
			c.Table.MaxPageSize, c.Table.DefaultPageSize)
	}

	if c.Security.RateLimiting.Enabled && c.Security.RateLimiting.RequestsPerMinute < 1 {
		return fmt.Errorf("security.rate_limiting.requests_per_minute must be at least 1 when enabled")
	}

	if c.Security.TLS.Enabled {
		if c.Security.TLS.CertFile == "" || c.Security.TLS.KeyFile == "" {
			return fmt.Errorf("security.tls.cert_file and security.tls.key_file are required when TLS is enabled")
		}
	}

	return nil
}

// expandEnv expands ${VAR} references against the process environment.
// A reference to an unset variable expands to the empty string, matching
// os.ExpandEnv semantics.
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.ExpandEnv(s)
}
