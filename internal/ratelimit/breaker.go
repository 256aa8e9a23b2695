package ratelimit

import (
	"context"

	"github.com/aman-churiwal/property-marketplace/internal/circuitbreaker"
)

// guardedStore stops calling a failing shared store for a cool-down period. Callers
// see circuitbreaker.ErrOpen and fail open without waiting on network timeouts.
type guardedStore struct {
	next    Store
	breaker *circuitbreaker.CircuitBreaker
}

// Guarded is implemented by stores that sit behind a circuit breaker.
type Guarded interface {
	BreakerSnapshot() circuitbreaker.Snapshot
}

func WithBreaker(next Store, breaker *circuitbreaker.CircuitBreaker) Store {
	return &guardedStore{next: next, breaker: breaker}
}

func (g *guardedStore) Take(ctx context.Context, key string, policy Policy) (Decision, error) {
	var decision Decision
	err := g.breaker.Call(func() error {
		var err error
		decision, err = g.next.Take(ctx, key, policy)
		return err
	})
	return decision, err
}

func (g *guardedStore) BreakerSnapshot() circuitbreaker.Snapshot {
	return g.breaker.Snapshot()
}
