package middleware

import (
	"net/http"
	"strings"

	"mechanio/models"
	"mechanio/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireRole for downstream handlers.
const (
	CtxActorID   = "actorID"
	CtxActorRole = "actorRole"
)

// RequireRole validates the bearer token and restricts the route to the given
// roles. An empty role list admits any authenticated actor.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if len(allowed) > 0 && !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operation not allowed for this role"})
			return
		}

		c.Set(CtxActorID, actorID)
		c.Set(CtxActorRole, role)
		c.Next()
	}
}
