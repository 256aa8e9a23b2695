package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(ttl time.Duration) (*TTLCache[string], *clock) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string](ttl)
	c.now = clk.now
	return c, clk
}

func TestSetGetExpire(t *testing.T) {
	c, clk := newTestCache(time.Minute)

	c.Set("a", "1", 0)
	c.Set("b", "2", 10*time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	clk.advance(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry is dropped on read")

	v, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestInvalidateProperty(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set(PropertyKey("p1"), "detail", 0)
	c.Set(PropertyKey("p2"), "detail", 0)
	c.Set(PropertiesKey("city=lisbon"), "list", 0)
	c.Set(PropertiesKey("featured"), "list", 0)

	InvalidateProperty(c, "p1")

	_, ok := c.Get(PropertyKey("p1"))
	assert.False(t, ok)
	_, ok = c.Get(PropertyKey("p2"))
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrSet(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	ctx := context.Background()
	calls := 0

	fetch := func(context.Context) (string, error) {
		calls++
		return "fresh", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet(ctx, "k", 0, fetch)
		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrSet(ctx, "bad", 0, func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestCleanupAndClear(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("a", "1", 0)
	c.Set("b", "2", time.Hour)

	clk.advance(2 * time.Minute)
	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestStartStop(t *testing.T) {
	c := NewTTLCache[int](time.Millisecond)
	c.Set("a", 1, time.Millisecond)

	c.Start(2 * time.Millisecond)
	c.Start(2 * time.Millisecond)
	defer c.Stop()

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()
}
