// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/docs"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/auth"
)

// Routes bundles the handlers and authorization settings the router mounts.
type Routes struct {
	Todo   *handlers.TodoHandler
	Demo   *handlers.DemoHandler
	Health *handlers.HealthHandler

	// Verifier validates bearer tokens. A nil Verifier leaves every request
	// anonymous, so guarded routes answer 401.
	Verifier middleware.TokenVerifier

	// Policies resolves the named policies referenced by guarded routes.
	Policies auth.Policies

	// SwaggerEnabled mounts the Swagger UI and OpenAPI document under /swagger.
	SwaggerEnabled bool
}

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given, followed by bearer token
// authentication. It fails when a guarded route names an unknown policy.
func NewRouter(routes Routes, middlewares ...func(http.Handler) http.Handler) (http.Handler, error) {
	adminsOnly, err := routes.Policies.Lookup(auth.PolicyAdminsOnly)
	if err != nil {
		return nil, fmt.Errorf("resolving /admin policy: %w", err)
	}

	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}
	if routes.Verifier != nil {
		r.Use(middleware.Authenticate(routes.Verifier))
	}

	// Health endpoints.
	r.Get("/health/live", routes.Health.Liveness)
	r.Get("/health/ready", routes.Health.Readiness)

	// Todo items.
	r.Route("/todoitems", func(r chi.Router) {
		r.Get("/", routes.Todo.ListTodos)
		r.Post("/", routes.Todo.CreateTodo)
		r.Get("/complete", routes.Todo.ListCompletedTodos)
		r.Get("/{id}", routes.Todo.GetTodo)
		r.Put("/{id}", routes.Todo.ReplaceTodo)
		r.Delete("/{id}", routes.Todo.DeleteTodo)
	})

	// Greetings.
	r.Get("/", routes.Demo.Hello)
	r.Get("/hello", routes.Demo.Hello)
	r.Get("/local", routes.Demo.Local)
	r.Get("/instance", routes.Demo.Instance)
	r.Get("/static", handlers.Static)

	// Authorization demos.
	r.Get("/login", routes.Demo.Public)
	r.With(middleware.RequirePolicy(adminsOnly)).Get("/admin", routes.Demo.Admin)
	r.With(middleware.RequireAuthenticated()).Get("/auth", routes.Demo.Authenticated)

	// Parameter binding demos.
	r.MethodFunc(http.MethodOptions, "/options-or-head", routes.Demo.OptionsOrHead)
	r.MethodFunc(http.MethodHead, "/options-or-head", routes.Demo.OptionsOrHead)
	r.Get("/products", routes.Demo.Products)
	r.Get("/users/{username}/books/{id}", routes.Demo.UserBook)
	r.Get("/hello/{name}", routes.Demo.HelloName)
	r.Get("/openparameters/{id}", routes.Demo.OpenParameters)

	if routes.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		))
	}

	return r, nil
}
