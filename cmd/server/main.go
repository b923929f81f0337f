// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/resilient"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/app"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/auth"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/health"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	storeCloseTimeout     = 5 * time.Second
	healthCheckTimeout    = 2 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

// shippedProfiles are the profiles with a file under configs/.
var shippedProfiles = []string{"local", "dev", "prod"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// profileFromEnv reads APP_PROFILE through getenv.
func profileFromEnv(getenv func(string) string) (string, error) {
	profile := getenv("APP_PROFILE")
	if profile == "" {
		return "", fmt.Errorf("APP_PROFILE environment variable is required (one of %s)",
			strings.Join(shippedProfiles, ", "))
	}
	return profile, nil
}

func run() error {
	profile, err := profileFromEnv(os.Getenv)
	if err != nil {
		return err
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	logger.Info("effective configuration",
		slog.String("profile", profile),
		slog.Any("config", cfg),
	)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	do.ProvideValue(injector, ctx)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	todoStore := do.MustInvoke[*resilient.Store](injector)
	registry.Register(todoStore)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Release store connections.
	storeCtx, storeCancel := context.WithTimeout(context.Background(), storeCloseTimeout)
	defer storeCancel()

	if err := todoStore.Close(storeCtx); err != nil {
		logger.Error("store close error", slog.Any("error", err))
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*resilient.Store, error) {
		ctx := do.MustInvoke[context.Context](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return store.Open(ctx, &cfg.Store, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		repo := do.MustInvoke[*resilient.Store](i)
		return app.NewTodoService(repo, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (*auth.Authenticator, error) {
		return auth.NewAuthenticator(cfg.Auth.SigningKey, cfg.Auth.Issuer), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(healthCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc), nil
	})

	do.Provide(injector, func(_ do.Injector) (*handlers.DemoHandler, error) {
		return handlers.NewDemoHandler(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(adapthttp.Routes{
			Todo:           do.MustInvoke[*handlers.TodoHandler](i),
			Demo:           do.MustInvoke[*handlers.DemoHandler](i),
			Health:         do.MustInvoke[*handlers.HealthHandler](i),
			Verifier:       do.MustInvoke[*auth.Authenticator](i),
			Policies:       auth.DefaultPolicies(cfg.Auth.AdminRole),
			SwaggerEnabled: cfg.Swagger.Enabled,
		}, middleware.Chain(
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.RateLimit(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst),
			middleware.Timeout(cfg.Server.WriteTimeout),
		))
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
