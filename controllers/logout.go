package controllers

import (
	"net/http"

	middlewares "canal-denuncies/middleware"

	"github.com/gin-gonic/gin"
)

func AdminLogout(c *gin.Context) {
	state := app.Logout(sessionID(c), adminToken(c).ID)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "state": state})
}
