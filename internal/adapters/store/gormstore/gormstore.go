// Package gormstore provides a TodoRepository on top of gorm, backed by
// SQLite or PostgreSQL. The todos table is migrated when the store opens.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

const slowQueryThreshold = 200 * time.Millisecond

// Store is a gorm-backed TodoRepository.
type Store struct {
	db     *gorm.DB
	driver string
}

// Open connects with the named dialect ("sqlite" or "postgres") and migrates
// the schema.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("gormstore: unsupported driver %q", driver)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w: %w", driver, domain.ErrUnavailable, err)
	}

	if driver == "sqlite" && isMemoryDSN(dsn) {
		// Every new connection to an unshared in-memory database starts
		// empty, so pin the pool to a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("accessing sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db, driver)
}

// New wraps an open gorm connection and migrates the todos table.
func New(db *gorm.DB, driver string) (*Store, error) {
	if err := db.AutoMigrate(&todoModel{}); err != nil {
		return nil, fmt.Errorf("migrating todos table: %w", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// List returns matching todos in ascending ID order.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if filter.Completed != nil {
		q = q.Where("is_complete = ?", *filter.Completed)
	}

	var rows []todoModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, s.wrap("listing todos", err)
	}

	out := make([]todo.Todo, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// Get returns the todo with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	var row todoModel
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("todo", id)
		}
		return nil, s.wrap("getting todo", err)
	}
	out := row.toDomain()
	return &out, nil
}

// Create inserts t and returns it with the database-assigned ID.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	row := toModel(t)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, s.wrap("creating todo", err)
	}
	out := row.toDomain()
	return &out, nil
}

// Update replaces the name and completion flag of an existing todo.
func (s *Store) Update(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row todoModel
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}

		repl := toModel(t)
		row.Name = repl.Name
		row.IsComplete = repl.IsComplete
		if err := tx.Model(&row).Select("name", "is_complete").Updates(&row).Error; err != nil {
			return err
		}

		updated := row.toDomain()
		out = &updated
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("todo", id)
		}
		return nil, s.wrap("updating todo", err)
	}
	return out, nil
}

// Delete removes the todo and returns it as it was before removal.
func (s *Store) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	var out *todo.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row todoModel
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&todoModel{}, id).Error; err != nil {
			return err
		}

		removed := row.toDomain()
		out = &removed
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("todo", id)
		}
		return nil, s.wrap("deleting todo", err)
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("accessing sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return s.driver
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("accessing sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", s.driver, err)
	}
	return nil
}

// wrap classifies a database failure as unavailable unless the caller's
// context ended first.
func (s *Store) wrap(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// slogWriter adapts gorm's Printf-style logger to slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn("gorm", slog.String("detail", fmt.Sprintf(format, args...)))
}
