package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func roleFromContext(ctx *gin.Context) (string, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return "", false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	role, ok := claims["role"].(string)
	return role, ok
}

// RequireRole gates a route to the given roles. Must run after
// RequireAuth so the claims are in context.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, ok := roleFromContext(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				ctx.Next()
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}
