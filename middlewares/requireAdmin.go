package middlewares

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := CurrentUser(ctx)
		if !ok {
			abortWithMessage(ctx, http.StatusUnauthorized, "User not found in context")
			return
		}

		if principal.Role != models.RoleAdmin {
			abortWithMessage(ctx, http.StatusForbidden, "Admin access required")
			return
		}

		ctx.Next()
	}
}
