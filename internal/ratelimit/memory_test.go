package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profilePolicy = Policy{Prefix: "/api/user/create-profile", MaxRequests: 5, Window: time.Minute}

func TestMemoryStoreFirstRequestOpensWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))

	d, err := store.Take(context.Background(), "k", profilePolicy)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, 5, d.Limit)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)

	rec, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, Record{Count: 1, ResetAt: clock.Now().Add(time.Minute)}, rec)
}

func TestMemoryStoreDeniesAfterLimit(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := store.Take(ctx, "k", profilePolicy)
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, i, d.Count)
		clock.Advance(2 * time.Second)
	}

	d, err := store.Take(ctx, "k", profilePolicy)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 60, d.RetryAfterSeconds())
	assert.Equal(t, 5, d.Count)

	rec, _ := store.Get("k")
	assert.Equal(t, 5, rec.Count, "denied requests do not change the record")
}

func TestMemoryStoreResetsAfterWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = store.Take(ctx, "k", profilePolicy)
	}
	d, _ := store.Take(ctx, "k", profilePolicy)
	require.False(t, d.Allowed)

	// still inside the window at exactly ResetAt
	clock.Advance(time.Minute)
	d, _ = store.Take(ctx, "k", profilePolicy)
	assert.False(t, d.Allowed)

	clock.Advance(time.Millisecond)
	d, err := store.Take(ctx, "k", profilePolicy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore(WithClock(newFakeClock().Now))
	ctx := context.Background()
	policy := Policy{Prefix: "/api/bookings", MaxRequests: 20, Window: time.Minute}

	for i := 0; i < 20; i++ {
		d, _ := store.Take(ctx, "1.1.1.1:/api/bookings", policy)
		require.True(t, d.Allowed)
	}
	d, _ := store.Take(ctx, "1.1.1.1:/api/bookings", policy)
	assert.False(t, d.Allowed)

	d, _ = store.Take(ctx, "2.2.2.2:/api/bookings", policy)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestMemoryStoreSweepRemovesExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	_, _ = store.Take(ctx, "old", profilePolicy)
	clock.Advance(45 * time.Second)
	_, _ = store.Take(ctx, "fresh", profilePolicy)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get("old")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}

func TestMemoryStoreSweepAfterInactivityStartsFreshWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = store.Take(ctx, "1.2.3.4:/api/user/create-profile", profilePolicy)
	}

	clock.Advance(DefaultSweepInterval)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())

	d, err := store.Take(ctx, "1.2.3.4:/api/user/create-profile", profilePolicy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
}

func TestMemoryStoreBackgroundSweeper(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(WithClock(clock.Now), WithSweepInterval(5*time.Millisecond))

	_, _ = store.Take(context.Background(), "k", profilePolicy)
	clock.Advance(2 * time.Minute)

	store.Start()
	store.Start()
	defer store.Stop()

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStoreStopIsIdempotentAndRestartable(t *testing.T) {
	store := NewMemoryStore(WithSweepInterval(time.Millisecond))

	store.Stop()
	store.Start()
	store.Stop()
	store.Stop()
	store.Start()
	store.Stop()
}

func TestMemoryStoreConcurrentTakesNeverExceedLimit(t *testing.T) {
	store := NewMemoryStore(WithClock(newFakeClock().Now))
	policy := Policy{Prefix: "/api/properties", MaxRequests: 60, Window: time.Minute}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := store.Take(context.Background(), "k", policy)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 60, allowed)
}
