package auth

import (
	"fmt"
	"sort"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
)

// PolicyAdminsOnly is the name of the built-in policy that requires the
// configured admin role.
const PolicyAdminsOnly = "AdminsOnly"

// Policy decides whether an authenticated principal may proceed.
// It returns nil to allow, or an error wrapping domain.ErrForbidden.
type Policy func(p *Principal) error

// RequireRole returns a Policy that allows principals holding role.
func RequireRole(role string) Policy {
	return func(p *Principal) error {
		if p == nil || !p.HasRole(role) {
			return fmt.Errorf("role %q required: %w", role, domain.ErrForbidden)
		}
		return nil
	}
}

// Policies is a named set of authorization policies.
type Policies map[string]Policy

// DefaultPolicies returns the built-in policy set. AdminsOnly requires adminRole.
func DefaultPolicies(adminRole string) Policies {
	return Policies{
		PolicyAdminsOnly: RequireRole(adminRole),
	}
}

// Lookup returns the named policy, or an error listing the known names.
func (ps Policies) Lookup(name string) (Policy, error) {
	if p, ok := ps[name]; ok {
		return p, nil
	}

	names := make([]string, 0, len(ps))
	for n := range ps {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown authorization policy %q (known: %v)", name, names)
}
