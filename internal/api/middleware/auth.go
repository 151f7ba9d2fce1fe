package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/lockward/internal/services"
)

const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// TokenValidator validates admin bearer tokens.
type TokenValidator interface {
	Validate(token string) (*services.Claims, error)
}

// AuthMiddleware requires a valid bearer token and stores its subject and
// role in the context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Set(loggerKey, GetRequestLogger(c).WithField("admin", claims.Subject))
		c.Next()
	}
}

// RequireRole rejects requests whose token does not carry role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// Actor returns the authenticated subject, used to stamp record changes.
func Actor(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
