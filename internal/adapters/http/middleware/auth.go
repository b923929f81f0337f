package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/auth"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

const (
	headerAuthorization = "Authorization"
	bearerScheme        = "Bearer"
)

var errNoCredentials = fmt.Errorf("missing or invalid bearer token: %w", domain.ErrUnauthorized)

// TokenVerifier validates a raw bearer token and returns its principal.
// *auth.Authenticator satisfies this interface.
type TokenVerifier interface {
	Verify(raw string) (*auth.Principal, error)
}

// Authenticate returns middleware that reads an optional bearer token from the
// Authorization header. A valid token stores its principal in the request
// context and adds the subject to the request logger. A missing or invalid
// token leaves the request anonymous; RequireAuthenticated and RequirePolicy
// decide whether the route allows that.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			logger := logging.FromContext(ctx)

			principal, err := verifier.Verify(raw)
			if err != nil {
				logger.DebugContext(ctx, "bearer token rejected", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx = auth.WithPrincipal(ctx, principal)
			ctx = logging.WithLogger(ctx, logger.With(slog.String("subject", principal.Subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated returns middleware that rejects anonymous requests
// with 401 and a Bearer challenge.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
				dto.WriteErrorResponse(w, r, errNoCredentials)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePolicy returns middleware that rejects anonymous requests with 401
// and authenticated requests that fail policy with 403.
func RequirePolicy(policy auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, ok := auth.PrincipalFromContext(ctx)
			if !ok {
				dto.WriteErrorResponse(w, r, errNoCredentials)
				return
			}

			if err := policy(principal); err != nil {
				if !errors.Is(err, domain.ErrForbidden) {
					err = fmt.Errorf("%w: %w", domain.ErrForbidden, err)
				}
				logging.FromContext(ctx).InfoContext(ctx, "authorization denied",
					slog.String("subject", principal.Subject),
					slog.Any("error", err),
				)
				dto.WriteErrorResponse(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get(headerAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
