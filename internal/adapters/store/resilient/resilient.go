// Package resilient decorates a todo store driver with a circuit breaker,
// retry with exponential backoff for reads, OpenTelemetry spans, and store
// operation metrics.
//
// Calls pass through the layers in this order:
//
//	Circuit Breaker → OTEL Span → Retry (reads only) → driver
//
// Construction:
//
//	repo := resilient.New(driver, cfg.Store.Driver, &cfg.Store, metrics, logger)
//
// Domain outcomes such as not found are returned unchanged and never trip the
// breaker. Only unavailable-store failures count as breaker failures.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

// Name identifies the store in health reports.
const Name = "todo-store"

// Store operation names used in spans, metrics, and logs.
const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Backend is a store driver: a repository that can also report its health.
type Backend interface {
	ports.TodoRepository
	ports.HealthChecker
}

// Store wraps a Backend with fault tolerance and instrumentation. It
// satisfies ports.TodoRepository and ports.HealthChecker.
type Store struct {
	next     Backend
	driver   string
	breaker  *gobreaker.CircuitBreaker[struct{}]
	retryCfg retryConfig
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
}

// New wraps next with a circuit breaker and read retries configured from cfg.
// The driver name labels spans and metrics. If metrics is nil, metric
// recording is skipped.
func New(next Backend, driver string, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Store {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        Name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainOutcome(err)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("driver", driver),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Store{
		next:    next,
		driver:  driver,
		breaker: cb,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		tracer:  otel.GetTracerProvider().Tracer("store"),
	}
}

// List returns the todos matching filter in ascending ID order.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	var items []todo.Todo
	err := s.execute(ctx, opList, true, func(ctx context.Context) error {
		var err error
		items, err = s.next.List(ctx, filter)
		return err
	})
	return items, err
}

// Get returns the todo with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	var item *todo.Todo
	err := s.execute(ctx, opGet, true, func(ctx context.Context) error {
		var err error
		item, err = s.next.Get(ctx, id)
		return err
	})
	return item, err
}

// Create inserts t. Writes are never retried so a create cannot be applied twice.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	var item *todo.Todo
	err := s.execute(ctx, opCreate, false, func(ctx context.Context) error {
		var err error
		item, err = s.next.Create(ctx, t)
		return err
	})
	return item, err
}

// Update replaces the mutable fields of the todo with the given ID.
func (s *Store) Update(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error) {
	var item *todo.Todo
	err := s.execute(ctx, opUpdate, false, func(ctx context.Context) error {
		var err error
		item, err = s.next.Update(ctx, id, t)
		return err
	})
	return item, err
}

// Delete removes the todo with the given ID and returns it.
func (s *Store) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	var item *todo.Todo
	err := s.execute(ctx, opDelete, false, func(ctx context.Context) error {
		var err error
		item, err = s.next.Delete(ctx, id)
		return err
	})
	return item, err
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Name returns the health check identifier.
func (s *Store) Name() string {
	return Name
}

// HealthCheck reports the breaker state first and only probes the driver
// while the breaker is closed.
//
// State mapping:
//   - "closed": the driver is probed and its result returned.
//   - "half-open": returns an error indicating degraded state.
//   - "open": returns an error indicating failure; no probe is made.
func (s *Store) HealthCheck(ctx context.Context) error {
	state := s.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		if err := s.next.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s (%s): %w", Name, s.driver, err)
		}
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s (%s): degraded (circuit breaker half-open)", Name, s.driver)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s (%s): failing (circuit breaker open)", Name, s.driver)
	default:
		return fmt.Errorf("%s (%s): unknown circuit breaker state %v", Name, s.driver, state)
	}
}

// execute runs fn inside the breaker and a span, retrying when retryable is
// set. Breaker rejections surface as domain.ErrUnavailable.
func (s *Store) execute(ctx context.Context, op string, retryable bool, fn func(context.Context) error) error {
	start := time.Now()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		spanCtx, span := s.startSpan(ctx, op)
		defer span.End()

		var callErr error
		if retryable {
			callErr = s.withRetry(spanCtx, op, fn)
		} else {
			callErr = fn(spanCtx)
		}
		finishSpan(span, callErr)

		return struct{}{}, callErr
	})

	s.recordMetrics(ctx, op, start, err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s store %s: %w: %w", s.driver, op, domain.ErrUnavailable, err)
	}
	return err
}

func (s *Store) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			telemetry.AttrStoreDriver.String(s.driver),
			telemetry.AttrStoreOperation.String(op),
		),
	)
}

// finishSpan records failures on the span. Domain outcomes are not errors.
func finishSpan(span trace.Span, err error) {
	if err == nil || isDomainOutcome(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordMetrics records store operation duration and count. Metrics are
// recorded outside the circuit breaker so that rejections are captured.
// Safe to call with nil metrics.
func (s *Store) recordMetrics(ctx context.Context, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreDriver.String(s.driver),
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrResult.String(resultOf(err)),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
