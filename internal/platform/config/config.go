// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Store drivers accepted by store.driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNeo4j    = "neo4j"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Auth      AuthConfig      `koanf:"auth"`
	Store     StoreConfig     `koanf:"store"`
	Swagger   SwaggerConfig   `koanf:"swagger"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `koanf:"host"`
	Port         int             `koanf:"port"`
	ReadTimeout  time.Duration   `koanf:"read_timeout"`
	WriteTimeout time.Duration   `koanf:"write_timeout"`
	IdleTimeout  time.Duration   `koanf:"idle_timeout"`
	RateLimit    RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig holds the inbound token bucket settings.
// A RequestsPerSecond of zero disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	SigningKey string        `koanf:"signing_key" masq:"secret"`
	Issuer     string        `koanf:"issuer"`
	AdminRole  string        `koanf:"admin_role"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
}

// StoreConfig selects and configures the todo storage driver.
type StoreConfig struct {
	Driver         string               `koanf:"driver"`
	DSN            string               `koanf:"dsn" masq:"secret"`
	Neo4j          Neo4jConfig          `koanf:"neo4j"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// Remote reports whether the driver talks to a server over the network.
// Remote drivers get read retries; every driver gets circuit breaking.
func (s *StoreConfig) Remote() bool {
	return s.Driver == DriverPostgres || s.Driver == DriverNeo4j
}

// Neo4jConfig holds graph database connection settings.
type Neo4jConfig struct {
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password string `koanf:"password" masq:"secret"`
	Database string `koanf:"database"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// SwaggerConfig toggles the OpenAPI document and UI routes.
type SwaggerConfig struct {
	Enabled bool `koanf:"enabled"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
