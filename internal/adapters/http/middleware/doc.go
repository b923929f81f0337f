// Package middleware holds the inbound HTTP pipeline of the todo API.
//
// cmd/server assembles the chain in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → RateLimit → Timeout → Authenticate → Handler
//
// Authenticate is installed by the router rather than the chain so that
// route-level authorization (RequirePolicy, RequireAuthenticated) can read the
// principal it resolves. Every middleware has the shape
// func(http.Handler) http.Handler and composes with Chain.
package middleware
