package middlewares

import (
	"net/http"
	"strings"

	"canal-denuncies/auth"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie  = "token"
	SessionIDKey = "session_id"
	ClaimsKey    = "claims"
)

// AuthMiddleware accepts the admin token from the "token" cookie or a Bearer header
// and stores the bound session id in the context.
func AuthMiddleware(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(TokenCookie)
		if err != nil || tokenString == "" {
			tokenString = bearerToken(c.GetHeader("Authorization"))
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			c.Abort()
			return
		}

		claims, err := m.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
