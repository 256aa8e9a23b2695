package ratelimit

import (
	"context"
)

// Limiter applies a policy table to requests using a counter store.
type Limiter struct {
	policies *PolicyTable
	store    Store
	metrics  *Metrics
}

func NewLimiter(policies *PolicyTable, store Store, metrics *Metrics) *Limiter {
	return &Limiter{
		policies: policies,
		store:    store,
		metrics:  metrics,
	}
}

// Check counts a request from clientID to path. matched is false when no policy covers
// the path, in which case nothing is recorded.
func (l *Limiter) Check(ctx context.Context, clientID, path string) (decision Decision, matched bool, err error) {
	policy, ok := l.policies.Match(path)
	if !ok {
		return Decision{}, false, nil
	}

	decision, err = l.store.Take(ctx, BuildKey(clientID, policy.Prefix), policy)
	if err != nil {
		l.metrics.observeError()
		return Decision{}, true, err
	}

	l.metrics.observe(policy.Prefix, decision.Allowed)
	return decision, true, nil
}

func (l *Limiter) Policies() *PolicyTable {
	return l.policies
}
