package middlewares

import (
	"net/http"
	"strings"

	"github.com/festora/festora-api/services"
	"github.com/gin-gonic/gin"
)

const CartTokenHeader = "x-cart-token"

// CartIdentity resolves the owner key every cart operation works
// against. An authenticated user always wins over a cart token; with
// neither present the request is rejected.
func CartIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err == nil {
				if userID, ok := userIDFromClaims(claims); ok {
					ctx.Set("user", claims)
					ctx.Set("user_id", userID)
					ctx.Set("owner_key", services.UserOwnerKey(userID))
					ctx.Next()
					return
				}
			}
		}

		token := ctx.GetHeader(CartTokenHeader)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No session or cart token present"})
			return
		}
		// The user prefix is reserved for authenticated owner keys. A
		// client-supplied token using it would alias another user's cart.
		if services.IsUserOwnerKey(token) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid cart token"})
			return
		}

		ctx.Set("owner_key", token)
		ctx.Next()
	}
}
