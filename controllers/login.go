package controllers

import (
	"errors"
	"net/http"
	"time"

	middlewares "canal-denuncies/middleware"
	"canal-denuncies/shell"

	"github.com/gin-gonic/gin"
)

// AdminLogin checks the shared PIN and sets the admin token cookie.
func AdminLogin(c *gin.Context) {
	type LoginInput struct {
		PIN string `json:"pin" binding:"required"`
	}

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	token, expires, err := app.Login(c.Request.Context(), clientID(c), input.PIN)
	if errors.Is(err, shell.ErrWrongPIN) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "PIN incorrecte", "state": app.State(clientID(c))})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		Secure:   secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"expiresAt": expires,
		"state":     app.State(clientID(c)),
	})
}
