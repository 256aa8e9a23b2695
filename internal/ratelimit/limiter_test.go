package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, clock *fakeClock) (*Limiter, *Metrics) {
	t.Helper()

	table, err := NewPolicyTable(DefaultPolicies()...)
	require.NoError(t, err)

	metrics := NewMetrics(prometheus.NewRegistry())
	store := NewMemoryStore(WithClock(clock.Now), WithMetrics(metrics))
	return NewLimiter(table, store, metrics), metrics
}

func TestLimiterCreateProfileScenario(t *testing.T) {
	clock := newFakeClock()
	limiter, metrics := newTestLimiter(t, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, matched, err := limiter.Check(ctx, "1.2.3.4", "/api/user/create-profile")
		require.NoError(t, err)
		require.True(t, matched)
		require.True(t, d.Allowed)
		clock.Advance(2 * time.Second)
	}

	d, _, _ := limiter.Check(ctx, "1.2.3.4", "/api/user/create-profile")
	require.False(t, d.Allowed)
	assert.Equal(t, 60, d.RetryAfterSeconds())

	clock.Advance(61 * time.Second)
	d, _, _ = limiter.Check(ctx, "1.2.3.4", "/api/user/create-profile")
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)

	route := "/api/user/create-profile"
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.requests.WithLabelValues(route)))
	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.allowed.WithLabelValues(route)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.blocked.WithLabelValues(route)))
}

func TestLimiterSharesBucketAcrossPrefixFamily(t *testing.T) {
	limiter, _ := newTestLimiter(t, newFakeClock())
	ctx := context.Background()

	_, _, _ = limiter.Check(ctx, "1.2.3.4", "/api/properties")
	d, matched, err := limiter.Check(ctx, "1.2.3.4", "/api/properties/abc123")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, 60, d.Limit)
}

func TestLimiterIgnoresUnconfiguredPaths(t *testing.T) {
	limiter, metrics := newTestLimiter(t, newFakeClock())

	_, matched, err := limiter.Check(context.Background(), "1.2.3.4", "/api/auth/session")
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.requests))
}

type failingStore struct{}

func (failingStore) Take(context.Context, string, Policy) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func TestLimiterCountsStoreErrors(t *testing.T) {
	table, err := NewPolicyTable(DefaultPolicies()...)
	require.NoError(t, err)
	metrics := NewMetrics(prometheus.NewRegistry())
	limiter := NewLimiter(table, failingStore{}, metrics)

	_, matched, err := limiter.Check(context.Background(), "1.2.3.4", "/api/bookings")
	assert.Error(t, err)
	assert.True(t, matched)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.errors))
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(StoreConfig{Backend: BackendMemory, SweepInterval: time.Minute}, nil, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = NewStore(StoreConfig{Backend: BackendRedis}, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewStore(StoreConfig{Backend: "etcd"}, nil, nil, nil)
	assert.Error(t, err)
}
