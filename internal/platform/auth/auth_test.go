package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/auth"
)

const (
	testKey    = "a-test-signing-key-of-enough-length"
	testIssuer = "todo-minimal-api"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAuthenticator_IssueAndVerify(t *testing.T) {
	t.Parallel()

	a := auth.NewAuthenticator(testKey, testIssuer)

	token, err := a.Issue("alice", []string{"admin", "user"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	p, err := a.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if p.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", p.Subject, "alice")
	}
	if !p.HasRole("admin") || !p.HasRole("user") {
		t.Errorf("Roles = %v, want admin and user", p.Roles)
	}
	if p.HasRole("root") {
		t.Error("HasRole(\"root\") = true, want false")
	}
}

func TestAuthenticator_IssueRejectsBadInput(t *testing.T) {
	t.Parallel()

	a := auth.NewAuthenticator(testKey, testIssuer)

	if _, err := a.Issue("", nil, time.Hour); err == nil {
		t.Error("Issue(empty subject) error = nil, want error")
	}
	if _, err := a.Issue("alice", nil, 0); err == nil {
		t.Error("Issue(zero ttl) error = nil, want error")
	}
}

func TestAuthenticator_VerifyFailures(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewAuthenticator(testKey, testIssuer, auth.WithClock(fixedClock(issued)))

	valid, err := issuer.Issue("alice", nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherKey, err := auth.NewAuthenticator("a-different-signing-key-value", testIssuer,
		auth.WithClock(fixedClock(issued))).Issue("alice", nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherIssuer, err := auth.NewAuthenticator(testKey, "someone-else",
		auth.WithClock(fixedClock(issued))).Issue("alice", nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString(none) error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{"empty token", "", issued},
		{"garbage", "not-a-jwt", issued},
		{"expired", valid, issued.Add(2 * time.Minute)},
		{"wrong key", otherKey, issued},
		{"wrong issuer", otherIssuer, issued},
		{"none algorithm", noneAlg, issued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := auth.NewAuthenticator(testKey, testIssuer, auth.WithClock(fixedClock(tt.now)))
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Verify() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestAuthenticator_TokenIsHS256(t *testing.T) {
	t.Parallel()

	token, err := auth.NewAuthenticator(testKey, testIssuer).Issue("alice", nil, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if got := strings.Count(token, "."); got != 2 {
		t.Fatalf("token has %d dots, want 2", got)
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &auth.Claims{})
	if err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}
	if parsed.Method.Alg() != "HS256" {
		t.Errorf("alg = %q, want HS256", parsed.Method.Alg())
	}
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	policies := auth.DefaultPolicies("admin")

	adminsOnly, err := policies.Lookup(auth.PolicyAdminsOnly)
	if err != nil {
		t.Fatalf("Lookup(AdminsOnly) error = %v", err)
	}

	if err := adminsOnly(&auth.Principal{Subject: "root", Roles: []string{"admin"}}); err != nil {
		t.Errorf("AdminsOnly(admin) = %v, want nil", err)
	}
	if err := adminsOnly(&auth.Principal{Subject: "bob", Roles: []string{"user"}}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("AdminsOnly(user) = %v, want ErrForbidden", err)
	}
	if err := adminsOnly(nil); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("AdminsOnly(nil) = %v, want ErrForbidden", err)
	}

	if _, err := policies.Lookup("Nope"); err == nil {
		t.Error("Lookup(unknown) error = nil, want error")
	}
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	if _, ok := auth.PrincipalFromContext(context.Background()); ok {
		t.Error("PrincipalFromContext(empty) ok = true, want false")
	}

	want := &auth.Principal{Subject: "alice"}
	ctx := auth.WithPrincipal(context.Background(), want)

	got, ok := auth.PrincipalFromContext(ctx)
	if !ok || got != want {
		t.Errorf("PrincipalFromContext() = %v, %v, want %v, true", got, ok, want)
	}
}
