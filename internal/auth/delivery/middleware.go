package delivery

import (
	"net/http"
	"strings"

	authdomain "jobtrack-backend/internal/auth/domain"
	"jobtrack-backend/internal/auth/usecase"
	"jobtrack-backend/pkg/identity"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token and attaches the verified
// identity plus the user record (nil when the subject has no record yet,
// e.g. before the first OAuth callback).
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header format"})
			c.Abort()
			return
		}

		ident, user, err := authUsecase.ResolveBearer(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("identity", ident)
		if user != nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity attached by AuthMiddleware.
func IdentityFrom(c *gin.Context) *identity.Identity {
	if v, ok := c.Get("identity"); ok {
		if ident, ok := v.(*identity.Identity); ok {
			return ident
		}
	}
	return nil
}

// UserFrom returns the resolved user record, or nil when none exists.
func UserFrom(c *gin.Context) *authdomain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user
		}
	}
	return nil
}
