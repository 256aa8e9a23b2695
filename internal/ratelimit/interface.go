package ratelimit

import (
	"context"
	"time"
)

// Store holds per-key window counters and performs admission atomically.
type Store interface {
	// Take counts one request against key under policy and reports whether it is admitted.
	Take(ctx context.Context, key string, policy Policy) (Decision, error)
}

// Record is the state of one (client, route prefix) window.
type Record struct {
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window has ended at now.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.ResetAt)
}

type Decision struct {
	Allowed    bool
	Count      int
	Limit      int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RetryAfterSeconds is the value sent in the Retry-After header.
func (d Decision) RetryAfterSeconds() int {
	return int((d.RetryAfter.Milliseconds() + 999) / 1000)
}

func decide(allowed bool, count int, resetAt time.Time, policy Policy) Decision {
	return Decision{
		Allowed:    allowed,
		Count:      count,
		Limit:      policy.MaxRequests,
		ResetAt:    resetAt,
		RetryAfter: policy.Window,
	}
}
