package ratelimit

import (
	"fmt"
	"strings"
	"time"
)

// Policy is the admission quota for a family of endpoints sharing a route prefix.
type Policy struct {
	Prefix      string
	MaxRequests int
	Window      time.Duration
}

// DefaultPolicies returns the route quotas used when no override is configured.
func DefaultPolicies() []Policy {
	return []Policy{
		{Prefix: "/api/favorites", MaxRequests: 30, Window: time.Minute},
		{Prefix: "/api/properties", MaxRequests: 60, Window: time.Minute},
		{Prefix: "/api/bookings", MaxRequests: 20, Window: time.Minute},
		{Prefix: "/api/user/complete-onboarding", MaxRequests: 5, Window: time.Minute},
		{Prefix: "/api/user/create-profile", MaxRequests: 5, Window: time.Minute},
		{Prefix: "/api/user/host-status", MaxRequests: 30, Window: time.Minute},
	}
}

// PolicyTable resolves a request path to the policy with the longest matching prefix.
// Prefixes are unique, so two candidates can never tie on length.
type PolicyTable struct {
	policies []Policy
}

func NewPolicyTable(policies ...Policy) (*PolicyTable, error) {
	seen := make(map[string]struct{}, len(policies))
	table := make([]Policy, 0, len(policies))

	for _, p := range policies {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Prefix]; dup {
			return nil, fmt.Errorf("duplicate rate limit prefix %q", p.Prefix)
		}
		seen[p.Prefix] = struct{}{}
		table = append(table, p)
	}

	return &PolicyTable{policies: table}, nil
}

func (p Policy) validate() error {
	if !strings.HasPrefix(p.Prefix, "/") {
		return fmt.Errorf("rate limit prefix %q must start with /", p.Prefix)
	}
	if p.MaxRequests <= 0 {
		return fmt.Errorf("rate limit for %q: max requests must be positive", p.Prefix)
	}
	if p.Window <= 0 {
		return fmt.Errorf("rate limit for %q: window must be positive", p.Prefix)
	}
	return nil
}

// Match returns the longest configured prefix of path.
func (t *PolicyTable) Match(path string) (Policy, bool) {
	var (
		best  Policy
		found bool
	)

	for _, p := range t.policies {
		if !strings.HasPrefix(path, p.Prefix) {
			continue
		}
		if !found || len(p.Prefix) > len(best.Prefix) {
			best = p
			found = true
		}
	}

	return best, found
}

// Policies returns the table in declared order.
func (t *PolicyTable) Policies() []Policy {
	out := make([]Policy, len(t.policies))
	copy(out, t.policies)
	return out
}
