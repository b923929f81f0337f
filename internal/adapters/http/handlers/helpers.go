package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

const msgInvalidInteger = "must be a valid integer"

// parseID extracts an int64 path parameter from the chi URL params.
func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"path." + param: msgInvalidInteger},
		}
	}
	return id, nil
}

// parseIntPathParam extracts an int path parameter from the chi URL params.
func parseIntPathParam(r *http.Request, param string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"path." + param: msgInvalidInteger},
		}
	}
	return v, nil
}

// parseOptionalIntQuery reads an optional int query parameter. Absent or empty
// values return def.
func parseOptionalIntQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"query." + name: msgInvalidInteger},
		}
	}
	return v, nil
}

// parseRequiredIntQuery reads a mandatory int query parameter. Absent and
// empty values are both rejected.
func parseRequiredIntQuery(r *http.Request, name string) (int, error) {
	if r.URL.Query().Get(name) == "" {
		return 0, &domain.ValidationError{
			Fields: map[string]string{"query." + name: "is required"},
		}
	}
	return parseOptionalIntQuery(r, name, 0)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeText writes a plain-text response with the given status code.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// decodeTodo decodes and validates a TodoRequest, returning the mapped domain
// Todo. Returns nil and writes an error response on failure.
func decodeTodo(w http.ResponseWriter, r *http.Request) *todo.Todo {
	var req dto.TodoRequest
	if !decodeAndValidate(w, r, &req) {
		return nil
	}
	return req.ToTodo()
}
