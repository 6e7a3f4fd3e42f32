package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/puffvibe-api/services"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(token string) (*services.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's principal in the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			abortWithMessage(ctx, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		principal, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			abortWithMessage(ctx, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx.Set(userKey, principal)
		ctx.Next()
	}
}

// CurrentUser returns the principal set by RequireAuth.
func CurrentUser(ctx *gin.Context) (*services.Principal, bool) {
	value, exists := ctx.Get(userKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*services.Principal)
	return principal, ok
}
