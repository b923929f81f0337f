// Package neo4jstore provides a TodoRepository backed by a Neo4j graph.
//
// Each todo is a (:Todo {id, name, isComplete}) node. IDs come from a single
// (:Sequence {name: 'todo'}) counter node that is incremented in the same
// write transaction that creates the todo, so IDs are never reused.
package neo4jstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

const (
	returnTodo = "RETURN t.id AS id, t.name AS name, t.isComplete AS isComplete"

	cypherConstraint = "CREATE CONSTRAINT todo_id IF NOT EXISTS FOR (t:Todo) REQUIRE t.id IS UNIQUE"

	cypherList = "MATCH (t:Todo) " +
		"WHERE $completed IS NULL OR t.isComplete = $completed " +
		returnTodo + " ORDER BY t.id"

	cypherGet = "MATCH (t:Todo {id: $id}) " + returnTodo

	cypherCreate = "MERGE (s:Sequence {name: 'todo'}) " +
		"ON CREATE SET s.value = 0 " +
		"SET s.value = s.value + 1 " +
		"CREATE (t:Todo {id: s.value, name: $name, isComplete: $isComplete}) " +
		returnTodo

	cypherUpdate = "MATCH (t:Todo {id: $id}) " +
		"SET t.name = $name, t.isComplete = $isComplete " +
		returnTodo

	cypherDelete = "MATCH (t:Todo {id: $id}) " +
		"WITH t, t.id AS id, t.name AS name, t.isComplete AS isComplete " +
		"DETACH DELETE t " +
		"RETURN id, name, isComplete"
)

// Config holds the connection settings for Open.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Store is a Neo4j-backed TodoRepository.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// Open connects to Neo4j, verifies connectivity, and ensures the uniqueness
// constraint on todo IDs exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	s := New(driver, cfg.Database)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, unavailable("connecting to neo4j", err)
	}
	if err := s.ensureSchema(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}

	return s, nil
}

// New wraps an existing driver. database may be empty to use the server default.
func New(driver neo4j.DriverWithContext, database string) *Store {
	return &Store{driver: driver, database: database}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypherConstraint, nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return unavailable("creating todo id constraint", err)
	}
	return nil
}

// List returns matching todos in ascending ID order.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	var completed any
	if filter.Completed != nil {
		completed = *filter.Completed
	}

	rows, err := s.read(ctx, cypherList, map[string]any{"completed": completed})
	if err != nil {
		return nil, unavailable("listing todos", err)
	}
	if rows == nil {
		rows = []todo.Todo{}
	}
	return rows, nil
}

// Get returns the todo with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	rows, err := s.read(ctx, cypherGet, map[string]any{"id": id})
	if err != nil {
		return nil, unavailable("getting todo", err)
	}
	return first(rows, id)
}

// Create stores t under the next sequence value.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	rows, err := s.write(ctx, cypherCreate, todoParams(t))
	if err != nil {
		return nil, unavailable("creating todo", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("creating todo: expected 1 row, got %d", len(rows))
	}
	return &rows[0], nil
}

// Update replaces the name and completion flag of an existing todo.
func (s *Store) Update(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error) {
	params := todoParams(t)
	params["id"] = id

	rows, err := s.write(ctx, cypherUpdate, params)
	if err != nil {
		return nil, unavailable("updating todo", err)
	}
	return first(rows, id)
}

// Delete removes the todo node and returns it as it was before removal.
func (s *Store) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	rows, err := s.write(ctx, cypherDelete, map[string]any{"id": id})
	if err != nil {
		return nil, unavailable("deleting todo", err)
	}
	return first(rows, id)
}

// Close closes the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return "neo4j"
}

// HealthCheck verifies the driver can reach the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity: %w", err)
	}
	return nil
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

func (s *Store) read(ctx context.Context, cypher string, params map[string]any) ([]todo.Todo, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return runAndCollect(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, err
	}
	return out.([]todo.Todo), nil
}

func (s *Store) write(ctx context.Context, cypher string, params map[string]any) ([]todo.Todo, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return runAndCollect(ctx, tx, cypher, params)
	})
	if err != nil {
		return nil, err
	}
	return out.([]todo.Todo), nil
}

func runAndCollect(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) ([]todo.Todo, error) {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	var rows []todo.Todo
	for res.Next(ctx) {
		t, err := recordToTodo(res.Record().AsMap())
		if err != nil {
			return nil, err
		}
		rows = append(rows, t)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func first(rows []todo.Todo, id int64) (*todo.Todo, error) {
	if len(rows) == 0 {
		return nil, domain.NotFoundError("todo", id)
	}
	return &rows[0], nil
}

// todoParams builds the query parameters for a todo's mutable fields.
// A nil name becomes a null parameter, which removes the property.
func todoParams(t *todo.Todo) map[string]any {
	var name any
	if t.Name != nil {
		name = *t.Name
	}
	return map[string]any{"name": name, "isComplete": t.IsComplete}
}

var errBadRecord = errors.New("unexpected todo record shape")

// recordToTodo converts a returned row into a Todo. Neo4j integers arrive as
// int64 and missing properties as nil.
func recordToTodo(values map[string]any) (todo.Todo, error) {
	id, ok := values["id"].(int64)
	if !ok {
		return todo.Todo{}, fmt.Errorf("%w: id is %T", errBadRecord, values["id"])
	}

	t := todo.Todo{ID: id}

	switch name := values["name"].(type) {
	case nil:
	case string:
		t.Name = &name
	default:
		return todo.Todo{}, fmt.Errorf("%w: name is %T", errBadRecord, name)
	}

	switch done := values["isComplete"].(type) {
	case nil:
	case bool:
		t.IsComplete = done
	default:
		return todo.Todo{}, fmt.Errorf("%w: isComplete is %T", errBadRecord, done)
	}

	return t, nil
}

// unavailable wraps a driver failure as domain.ErrUnavailable unless the
// caller's context ended first or the data itself was malformed.
func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errBadRecord) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}
