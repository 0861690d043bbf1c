package controllers

import (
	"errors"
	"net/http"

	"canal-denuncies/auth"
	middlewares "canal-denuncies/middleware"
	"canal-denuncies/shell"

	"github.com/gin-gonic/gin"
)

var (
	app           *shell.App
	secureCookies bool
	maxUpload     int64
)

// Init hands the application shell to the handlers.
func Init(a *shell.App, secure bool, maxAttachmentBytes int64) {
	app = a
	secureCookies = secure
	maxUpload = maxAttachmentBytes
}

func clientID(c *gin.Context) string {
	return c.GetString(middlewares.ClientIDKey)
}

func sessionID(c *gin.Context) string {
	return c.GetString(middlewares.SessionIDKey)
}

func adminToken(c *gin.Context) shell.AdminToken {
	v, _ := c.Get(middlewares.ClaimsKey)
	claims, ok := v.(*auth.Claims)
	if !ok {
		return shell.AdminToken{}
	}
	tok := shell.AdminToken{ID: claims.ID}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tok.ExpiresAt = claims.ExpiresAt.Time
	}
	return tok
}

// AdminSession runs after AuthMiddleware and restores the admin state of the
// session bound to the token.
func AdminSession(c *gin.Context) {
	if err := app.ResumeAdmin(c.Request.Context(), sessionID(c), adminToken(c)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session closed"})
		c.Abort()
		return
	}
	c.Next()
}

// adminError maps shell and dashboard errors onto HTTP answers.
func adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shell.ErrNotAdmin):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin session required"})
	default:
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
	}
}
