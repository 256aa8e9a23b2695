package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-churiwal/property-marketplace/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tooManyRequests = "Too many requests. Please try again later."

// EdgeFilter stamps security headers on every non-static response and enforces the
// per-route, per-client request quotas on /api/ paths. Denied requests never reach
// the handler. If the counter store fails the request is let through.
func EdgeFilter(limiter *ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if IsStaticAsset(path) {
			c.Next()
			return
		}

		ApplySecurityHeaders(c.Writer.Header())

		if !strings.HasPrefix(path, APIPrefix) {
			c.Next()
			return
		}

		clientID := ratelimit.ClientIdentifier(c.Request)
		decision, matched, err := limiter.Check(c.Request.Context(), clientID, path)
		if err != nil {
			logger.Warn("rate limit check failed, allowing request",
				zap.Error(err),
				zap.String("path", path),
				zap.String("client", clientID),
				zap.String("request_id", GetRequestID(c)),
			)
			c.Next()
			return
		}

		if matched && !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()

			logger.Info("rate limit exceeded",
				zap.String("path", path),
				zap.String("client", clientID),
				zap.Int("limit", decision.Limit),
			)

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      tooManyRequests,
				"retryAfter": retryAfter,
			})
			return
		}

		c.Next()
	}
}
