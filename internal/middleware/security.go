package middleware

import (
	"net/http"
	"strings"
)

// APIPrefix marks the paths that are subject to route rate limits.
const APIPrefix = "/api/"

var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-eval' 'unsafe-inline' https://cdn.jsdelivr.net https://js.stripe.com",
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
	"img-src 'self' data: https: blob:",
	"font-src 'self' https://fonts.gstatic.com",
	"connect-src 'self' https://*.cloudinary.com https://*.neon.tech https://*.stackauth.com https://*.stack-auth.com https://1.1.1.1",
	"frame-src 'self' https://js.stripe.com https://*.stackauth.com https://*.stack-auth.com",
}, "; ")

// SecurityHeaders is applied, in this order, to every response that is not a static asset.
var SecurityHeaders = [][2]string{
	{"X-DNS-Prefetch-Control", "on"},
	{"Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	{"Content-Security-Policy", contentSecurityPolicy},
}

var (
	staticPrefixes = []string{"/_next/static", "/_next/image", "/favicon.ico"}
	staticSuffixes = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

func ApplySecurityHeaders(h http.Header) {
	for _, kv := range SecurityHeaders {
		h.Set(kv[0], kv[1])
	}
}

// IsStaticAsset reports whether path bypasses the edge filter entirely.
func IsStaticAsset(path string) bool {
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, s := range staticSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
