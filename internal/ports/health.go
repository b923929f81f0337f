package ports

import "context"

// HealthChecker reports whether one dependency of the service can take
// traffic. The resilient todo store and the store drivers implement it.
type HealthChecker interface {
	// Name identifies the component in the readiness body, e.g. "todo-store".
	Name() string

	// HealthCheck returns nil when the component is usable. It must give up
	// once ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every registered check and returns the outcome per name.
	// A nil value means the component passed.
	CheckAll(ctx context.Context) map[string]error
}
