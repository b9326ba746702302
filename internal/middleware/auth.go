package middleware

import (
	"net/http"
	"strings"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ContextClaims = "claims"
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextJTI    = "jti"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	// Browsers cannot set headers on websocket upgrades.
	return c.Query("token")
}

// JWTAuth validates the bearer token and rejects revoked sessions.
func JWTAuth(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			return
		}

		claims, err := sessions.Authenticate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, string(claims.Role))
		c.Set(ContextJTI, claims.ID)
		c.Next()
	}
}

// RequireRole lets through only callers with the given role. It must run
// after JWTAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by JWTAuth.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
