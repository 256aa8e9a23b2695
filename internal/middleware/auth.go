package middleware

import (
	"net/http"
	"strings"

	"github.com/aman-churiwal/property-marketplace/internal/identity"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie is the cookie the identity provider's browser SDK stores its token in.
	SessionCookie = "stack-access"
	principalKey  = "principal"
)

// RequireAuth validates the session token from the Authorization header or the
// session cookie and stores the caller's identity in the context.
func RequireAuth(verifier *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// CurrentPrincipal returns the identity stored by RequireAuth, or nil on public routes.
func CurrentPrincipal(c *gin.Context) *identity.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*identity.Principal)
	return p
}
