package config

const (
	defaultServerPort = 5000

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":                           "0.0.0.0",
		"server.port":                           defaultServerPort,
		"server.read_timeout":                   "5s",
		"server.write_timeout":                  "10s",
		"server.idle_timeout":                   "120s",
		"server.rate_limit.requests_per_second": 0,
		"server.rate_limit.burst":               0,

		"log.level":  "info",
		"log.format": "json",

		"auth.signing_key": "",
		"auth.issuer":      "todo-minimal-api",
		"auth.admin_role":  "admin",
		"auth.token_ttl":   "1h",

		"store.driver":                          DriverMemory,
		"store.dsn":                             "",
		"store.neo4j.uri":                       "",
		"store.neo4j.username":                  "",
		"store.neo4j.password":                  "",
		"store.neo4j.database":                  "neo4j",
		"store.retry.max_attempts":              defaultRetryMaxAttempts,
		"store.retry.initial_interval":          "100ms",
		"store.retry.max_interval":              "2s",
		"store.retry.multiplier":                defaultRetryMultiplier,
		"store.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"store.circuit_breaker.timeout":         "30s",
		"store.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,

		"swagger.enabled": false,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "todo-minimal-api",
	}
}
