// Package auth issues and verifies HS256 bearer tokens and evaluates
// authorization policies against the caller they identify.
//
// Tokens are minted offline (see cmd/token) and presented as
//
//	Authorization: Bearer <token>
//
// Verification failures wrap domain.ErrUnauthorized; policy failures wrap
// domain.ErrForbidden, so the HTTP layer maps them to 401 and 403.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
)

// Principal is the authenticated caller carried by a verified token.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal was granted role.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Claims is the JWT payload minted by Issue.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies tokens with a shared HMAC key.
type Authenticator struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// NewAuthenticator creates an Authenticator for the given signing key and issuer.
func NewAuthenticator(signingKey, issuer string, opts ...Option) *Authenticator {
	a := &Authenticator{
		key:    []byte(signingKey),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue mints a signed token for subject with the given roles, valid for ttl.
func (a *Authenticator) Issue(subject string, roles []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %v", ttl)
	}

	now := a.now()
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a raw token string.
// Returns an error wrapping domain.ErrUnauthorized when the token is malformed,
// signed with another key or algorithm, expired, or from another issuer.
func (a *Authenticator) Verify(raw string) (*Principal, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w: %w", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject: %w", domain.ErrUnauthorized)
	}

	return &Principal{Subject: claims.Subject, Roles: claims.Roles}, nil
}

func (a *Authenticator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return a.key, nil
}
