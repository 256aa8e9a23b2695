package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoliciesTable(t *testing.T) {
	table, err := NewPolicyTable(DefaultPolicies()...)
	require.NoError(t, err)

	cases := []struct {
		path   string
		prefix string
		max    int
	}{
		{"/api/favorites", "/api/favorites", 30},
		{"/api/properties", "/api/properties", 60},
		{"/api/properties/abc123", "/api/properties", 60},
		{"/api/bookings/42/cancel", "/api/bookings", 20},
		{"/api/user/complete-onboarding", "/api/user/complete-onboarding", 5},
		{"/api/user/create-profile", "/api/user/create-profile", 5},
		{"/api/user/host-status", "/api/user/host-status", 30},
	}

	for _, tc := range cases {
		p, ok := table.Match(tc.path)
		require.True(t, ok, tc.path)
		assert.Equal(t, tc.prefix, p.Prefix, tc.path)
		assert.Equal(t, tc.max, p.MaxRequests, tc.path)
		assert.Equal(t, time.Minute, p.Window, tc.path)
	}
}

func TestMatchUnconfiguredPath(t *testing.T) {
	table, err := NewPolicyTable(DefaultPolicies()...)
	require.NoError(t, err)

	for _, path := range []string{"/api/auth/callback", "/api/user", "/properties", "/"} {
		_, ok := table.Match(path)
		assert.False(t, ok, path)
	}
}

func TestMatchPrefersLongestPrefixRegardlessOfOrder(t *testing.T) {
	broad := Policy{Prefix: "/api/user", MaxRequests: 100, Window: time.Minute}
	narrow := Policy{Prefix: "/api/user/create-profile", MaxRequests: 5, Window: time.Minute}

	for _, order := range [][]Policy{{broad, narrow}, {narrow, broad}} {
		table, err := NewPolicyTable(order...)
		require.NoError(t, err)

		p, ok := table.Match("/api/user/create-profile")
		require.True(t, ok)
		assert.Equal(t, narrow.Prefix, p.Prefix)

		p, ok = table.Match("/api/user/host-status")
		require.True(t, ok)
		assert.Equal(t, broad.Prefix, p.Prefix)
	}
}

func TestNewPolicyTableRejectsInvalidPolicies(t *testing.T) {
	cases := map[string][]Policy{
		"duplicate": {
			{Prefix: "/api/a", MaxRequests: 1, Window: time.Second},
			{Prefix: "/api/a", MaxRequests: 2, Window: time.Second},
		},
		"relative":    {{Prefix: "api/a", MaxRequests: 1, Window: time.Second}},
		"zero max":    {{Prefix: "/api/a", MaxRequests: 0, Window: time.Second}},
		"zero window": {{Prefix: "/api/a", MaxRequests: 1}},
	}

	for name, policies := range cases {
		_, err := NewPolicyTable(policies...)
		assert.Error(t, err, name)
	}
}

func TestRetryAfterSecondsRoundsUp(t *testing.T) {
	assert.Equal(t, 60, Decision{RetryAfter: time.Minute}.RetryAfterSeconds())
	assert.Equal(t, 2, Decision{RetryAfter: 1500 * time.Millisecond}.RetryAfterSeconds())
	assert.Equal(t, 1, Decision{RetryAfter: time.Millisecond}.RetryAfterSeconds())
}

func TestPoliciesReturnsCopy(t *testing.T) {
	table, err := NewPolicyTable(DefaultPolicies()...)
	require.NoError(t, err)

	got := table.Policies()
	got[0].MaxRequests = 1

	p, _ := table.Match("/api/favorites")
	assert.Equal(t, 30, p.MaxRequests)
}
