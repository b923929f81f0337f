package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
)

// Fixed details for failures whose error text comes from drivers or
// infrastructure. The full error is only logged.
const (
	internalErrorDetail    = "an unexpected error occurred"
	unavailableErrorDetail = "todo store unavailable"
)

// ErrorResponse represents an RFC 9457 Problem Details response.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := domainErrorToStatus(err)

	var detail string
	switch status {
	case http.StatusInternalServerError:
		detail = internalErrorDetail
	case http.StatusBadGateway:
		detail = unavailableErrorDetail
	default:
		detail = err.Error()
	}

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error. It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
// Unauthorized responses also carry a Bearer challenge.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	if resp.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeProblem(w, r, resp)
}

// WriteStatusResponse writes an RFC 9457 response for a failure that has no
// domain error behind it, such as a rejected rate-limited request.
func WriteStatusResponse(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	})
}

func writeProblem(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// domainErrorToStatus maps domain sentinel errors to HTTP status codes.
func domainErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries. Bare field names are body fields; "body" itself and
// names that already carry a location prefix ("path.id", "query.p") are used
// as-is.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		location := field
		if field != "body" && !strings.Contains(field, ".") {
			location = "body." + field
		}
		details = append(details, ErrorDetail{
			Location: location,
			Message:  msg,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
