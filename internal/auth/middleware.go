package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/roster/internal/audit"
	"github.com/rosterhq/roster/internal/users"
)

const ctxClaims = "roster_claims"

// Require returns a Gin middleware that enforces a valid session Bearer
// token. On success the *Claims are injected into the request context.
func Require(tokens *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, users.ErrorResponse{
				Error: "Bearer token required",
			})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, users.ErrorResponse{
				Error:   "invalid session token",
				Details: err.Error(),
			})
			return
		}

		c.Set(ctxClaims, claims)
		// Name the principal for audit entries written downstream.
		c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), claims.Nickname))
		c.Next()
	}
}

// RequireStaff aborts unless the session role is MODERATOR or ADMIN.
// Chain it after Require.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.Role.Staff() {
			c.AbortWithStatusJSON(http.StatusForbidden, users.ErrorResponse{
				Error: "staff role required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts unless the session role is ADMIN. Chain it after
// Require.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || claims.Role != users.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, users.ErrorResponse{
				Error: "admin role required",
			})
			return
		}
		c.Next()
	}
}

// ClaimsFrom retrieves the session claims injected by Require. Returns
// nil when the route was not authenticated.
func ClaimsFrom(c *gin.Context) *Claims {
	v, _ := c.Get(ctxClaims)
	claims, _ := v.(*Claims)
	return claims
}
