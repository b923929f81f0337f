package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

// Fixed bodies of the plain-text demo routes.
const (
	greetingBody      = "Hello Minimal APIs"
	localBody         = "Minimal APIs"
	instanceBody      = "InstanceMethod"
	staticBody        = "StaticMethod"
	publicBody        = "Herkese açık"
	adminBody         = "Adminlere özel!"
	authenticatedBody = "Sadece yetkili kişiler!"
	optionsOrHeadBody = "This is an options or head request"
)

const defaultPageNumber = 1

// DemoHandler serves the plain-text routes that show off parameter binding
// and per-route authorization.
type DemoHandler struct {
	greeting string
}

// NewDemoHandler creates a DemoHandler.
func NewDemoHandler() *DemoHandler {
	return &DemoHandler{greeting: instanceBody}
}

// Hello handles GET / and GET /hello.
//
//	@Summary	Greeting
//	@Tags		demo
//	@Produce	plain
//	@Success	200	{string}	string	"Hello Minimal APIs"
//	@Router		/ [get]
//	@Router		/hello [get]
func (h *DemoHandler) Hello(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, greetingBody)
}

// Local handles GET /local.
//
//	@Summary	Greeting from a local function
//	@Tags		demo
//	@Produce	plain
//	@Success	200	{string}	string	"Minimal APIs"
//	@Router		/local [get]
func (h *DemoHandler) Local(w http.ResponseWriter, _ *http.Request) {
	local := func() string { return localBody }
	writeText(w, http.StatusOK, local())
}

// Instance handles GET /instance with a method bound to the handler value.
//
//	@Summary	Greeting from a method value
//	@Tags		demo
//	@Produce	plain
//	@Success	200	{string}	string	"InstanceMethod"
//	@Router		/instance [get]
func (h *DemoHandler) Instance(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, h.greeting)
}

// Static handles GET /static.
//
//	@Summary	Greeting from a package function
//	@Tags		demo
//	@Produce	plain
//	@Success	200	{string}	string	"StaticMethod"
//	@Router		/static [get]
func Static(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, staticBody)
}

// Public handles GET /login. It is always anonymous.
//
//	@Summary	Anonymous endpoint
//	@Tags		auth
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/login [get]
func (h *DemoHandler) Public(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, publicBody)
}

// Admin handles GET /admin. The router guards it with the admin policy.
//
//	@Summary	Admin-only endpoint
//	@Tags		auth
//	@Produce	plain
//	@Security	BearerAuth
//	@Success	200	{string}	string
//	@Failure	401	{object}	dto.ErrorResponse
//	@Failure	403	{object}	dto.ErrorResponse
//	@Router		/admin [get]
func (h *DemoHandler) Admin(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, adminBody)
}

// Authenticated handles GET /auth. The router requires any valid token.
//
//	@Summary	Authenticated endpoint
//	@Tags		auth
//	@Produce	plain
//	@Security	BearerAuth
//	@Success	200	{string}	string
//	@Failure	401	{object}	dto.ErrorResponse
//	@Router		/auth [get]
func (h *DemoHandler) Authenticated(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, authenticatedBody)
}

// OptionsOrHead handles OPTIONS and HEAD /options-or-head. HEAD responses
// carry headers only.
//
//	@Summary	Options or head request
//	@Tags		demo
//	@Produce	plain
//	@Success	200	{string}	string
//	@Router		/options-or-head [options]
//	@Router		/options-or-head [head]
func (h *DemoHandler) OptionsOrHead(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeText(w, http.StatusOK, optionsOrHeadBody)
}

// Products handles GET /products?pageNumber=N.
//
//	@Summary	Page through products
//	@Tags		demo
//	@Produce	plain
//	@Param		pageNumber	query		int	false	"Page number"	default(1)
//	@Success	200			{string}	string
//	@Failure	400			{object}	dto.ErrorResponse
//	@Router		/products [get]
func (h *DemoHandler) Products(w http.ResponseWriter, r *http.Request) {
	page, err := parseOptionalIntQuery(r, "pageNumber", defaultPageNumber)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeText(w, http.StatusOK, fmt.Sprintf("Request page %d", page))
}

// UserBook handles GET /users/{username}/books/{id}.
//
//	@Summary	Bind two route values
//	@Tags		demo
//	@Produce	plain
//	@Param		username	path		string	true	"User name"
//	@Param		id			path		int		true	"Book ID"
//	@Success	200			{string}	string
//	@Failure	400			{object}	dto.ErrorResponse
//	@Router		/users/{username}/books/{id} [get]
func (h *DemoHandler) UserBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntPathParam(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeText(w, http.StatusOK, fmt.Sprintf("User: %s Book: %d", chi.URLParam(r, "username"), id))
}

// HelloName handles GET /hello/{name}.
//
//	@Summary	Personal greeting
//	@Tags		demo
//	@Produce	plain
//	@Param		name	path		string	true	"Name"
//	@Success	200		{string}	string
//	@Router		/hello/{name} [get]
func (h *DemoHandler) HelloName(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Hello "+chi.URLParam(r, "name"))
}

// OpenParameters handles GET /openparameters/{id}?p=N. It binds a route
// value, a required query value and a header, then answers with an empty 200.
//
//	@Summary	Bind route, query and header values
//	@Tags		demo
//	@Param		id				path	int		true	"Route value"
//	@Param		p				query	int		true	"Page"
//	@Param		Content-Type	header	string	false	"Content type"
//	@Success	200
//	@Failure	400	{object}	dto.ErrorResponse
//	@Router		/openparameters/{id} [get]
func (h *DemoHandler) OpenParameters(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntPathParam(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	page, err := parseRequiredIntQuery(r, "p")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	logging.FromContext(r.Context()).DebugContext(r.Context(), "bound open parameters",
		slog.Int("id", id),
		slog.Int("page", page),
		slog.String("content_type", r.Header.Get("Content-Type")),
	)

	w.WriteHeader(http.StatusOK)
}
