package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests that carry no forwarding headers.
// Every such client behind the same proxy shares one quota.
const UnknownClient = "unknown"

// ClientIdentifier derives a best-effort caller identity from proxy headers.
func ClientIdentifier(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return UnknownClient
}

// BuildKey joins a client identifier and a route prefix into a record key.
func BuildKey(clientID, prefix string) string {
	return clientID + ":" + prefix
}
