package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const principalContextKey = "stayhub.principal"

// principal is the calling identity, taken from trusted gateway headers.
// Authentication itself happens upstream; this service only needs to know
// who is asking and in which role.
type principal struct {
	ID   string
	Role string
}

func (p principal) HasRole(role string) bool {
	return strings.EqualFold(p.Role, role)
}

// IdentityMiddleware reads X-User-ID and X-User-Role into the request
// context. Anonymous requests pass through; protected routes reject them.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id != "" {
			c.Set(principalContextKey, principal{
				ID:   id,
				Role: strings.ToLower(strings.TrimSpace(c.GetHeader("X-User-Role"))),
			})
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	value, ok := c.Get(principalContextKey)
	if !ok {
		return principal{}, false
	}
	p, ok := value.(principal)
	return p, ok
}

// requireRole aborts with 401 for anonymous callers and 403 for callers
// lacking the role. An empty role accepts any authenticated caller.
func requireRole(c *gin.Context, role string) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return principal{}, false
	}
	if role != "" && !p.HasRole(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return principal{}, false
	}
	return p, true
}
