// Package health provides a thread-safe health check registry for tracking
// the health of the todo store and any other registered dependency. The
// registry is used by the readiness endpoint to determine whether the service
// can accept traffic.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

// maxConcurrentChecks bounds how many health checks run at once.
const maxConcurrentChecks = 8

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Components that implement [ports.HealthChecker] are registered at startup
// and checked concurrently on each readiness probe.
type Registry struct {
	mu           sync.RWMutex
	checkers     []ports.HealthChecker
	checkTimeout time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout bounds each individual health check. Zero means checks
// are bounded only by the caller's context.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.checkTimeout = d
	}
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll executes all registered health checks and returns results keyed by
// checker name. Nil values indicate healthy components. When two checkers
// share a name, the one registered last wins.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	errs := make([]error, len(checkers))

	var g errgroup.Group
	g.SetLimit(maxConcurrentChecks)
	for i, c := range checkers {
		g.Go(func() error {
			errs[i] = r.check(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = errs[i]
	}
	return results
}

func (r *Registry) check(ctx context.Context, c ports.HealthChecker) error {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}
	return c.HealthCheck(ctx)
}
