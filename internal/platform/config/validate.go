package config

import (
	"errors"
	"fmt"
	"strings"
)

// minSigningKeyLength is the shortest HS256 key accepted, in bytes.
const minSigningKeyLength = 16

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Auth.validate(),
		c.Store.validate(),
		c.Telemetry.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit.requests_per_second must not be negative, got %v",
			s.RateLimit.RequestsPerSecond))
	}
	if s.RateLimit.RequestsPerSecond > 0 && s.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("server.rate_limit.burst must be >= 1 when rate limiting is enabled, got %d",
			s.RateLimit.Burst))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) validate() error {
	var errs []error

	if a.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key must not be empty"))
	} else if len(a.SigningKey) < minSigningKeyLength {
		errs = append(errs, fmt.Errorf("auth.signing_key must be at least %d bytes, got %d",
			minSigningKeyLength, len(a.SigningKey)))
	}
	if strings.TrimSpace(a.AdminRole) == "" {
		errs = append(errs, errors.New("auth.admin_role must not be empty"))
	}
	if a.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	var errs []error

	switch s.Driver {
	case DriverMemory:
		// No connection settings needed.
	case DriverSQLite, DriverPostgres:
		if s.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn must not be empty when driver is %s", s.Driver))
		}
	case DriverNeo4j:
		if s.Neo4j.URI == "" {
			errs = append(errs, errors.New("store.neo4j.uri must not be empty when driver is neo4j"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be one of: memory, sqlite, postgres, neo4j; got %q", s.Driver))
	}

	if s.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("store.retry.max_attempts must be >= 1, got %d", s.Retry.MaxAttempts))
	}
	if s.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("store.retry.multiplier must be positive, got %f", s.Retry.Multiplier))
	}
	if s.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("store.circuit_breaker.max_failures must be >= 1, got %d",
			s.CircuitBreaker.MaxFailures))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
