package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIdentifier(t *testing.T) {
	cases := []struct {
		name      string
		forwarded string
		realIP    string
		want      string
	}{
		{"forwarded single", "1.2.3.4", "", "1.2.3.4"},
		{"forwarded chain", "1.2.3.4, 10.0.0.1, 10.0.0.2", "9.9.9.9", "1.2.3.4"},
		{"real ip fallback", "", "5.6.7.8", "5.6.7.8"},
		{"empty first hop", ", 10.0.0.1", "5.6.7.8", "5.6.7.8"},
		{"no headers", "", "", UnknownClient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/favorites", nil)
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, ClientIdentifier(req))
		})
	}
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "1.2.3.4:/api/bookings", BuildKey("1.2.3.4", "/api/bookings"))
}
