package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shwetank-antino/task-management-api/internal/httperr"
	"github.com/shwetank-antino/task-management-api/internal/users"
)

// RequireAuth verifies the bearer token and attaches the caller's Identity
// to the context. Every protected route goes through this before any
// role check.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			httperr.Respond(c, httperr.Unauthorized("Unauthorized: Token missing"))
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")
		claims, err := tokens.Parse(tokenStr, TokenTypeAccess)
		if err != nil {
			httperr.Respond(c, httperr.Unauthorized("Unauthorized: Invalid or expired token"))
			return
		}
		c.Set(users.IdentityKey, claims.Identity())
		c.Next()
	}
}

// RequireRole allows the request through only if the authenticated caller
// holds one of the listed roles. It must be mounted after RequireAuth; if
// no identity is attached it fails closed with 401 rather than guessing.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := users.FromContext(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized("Unauthorized"))
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		httperr.Respond(c, httperr.Forbidden("Forbidden: Access denied"))
	}
}
