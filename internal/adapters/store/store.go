// Package store selects and opens the configured todo store driver and wraps
// it with the resilient decorator.
//
//	repo, err := store.Open(ctx, &cfg.Store, metrics, logger)
//	defer repo.Close(ctx)
//
// Supported drivers are memory, sqlite, postgres, and neo4j.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/gormstore"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/memory"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/neo4jstore"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/resilient"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/telemetry"
)

// Open connects to the driver named by cfg.Driver and returns it wrapped with
// circuit breaking, tracing, and metrics. Reads are retried for remote drivers
// only. If metrics is nil, metric recording is skipped.
func Open(ctx context.Context, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*resilient.Store, error) {
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}

	logger.Info("todo store opened", slog.String("driver", cfg.Driver))

	wrapCfg := *cfg
	if !cfg.Remote() {
		// Local drivers are not retried.
		wrapCfg.Retry.MaxAttempts = 1
	}

	return resilient.New(backend, cfg.Driver, &wrapCfg, metrics, logger), nil
}

func openBackend(ctx context.Context, cfg *config.StoreConfig, logger *slog.Logger) (resilient.Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite, config.DriverPostgres:
		return gormstore.Open(cfg.Driver, cfg.DSN, logger)
	case config.DriverNeo4j:
		return neo4jstore.Open(ctx, neo4jstore.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		})
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
