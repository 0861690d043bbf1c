package controllers

import (
	"errors"
	"net/http"

	"canal-denuncies/models"
	"canal-denuncies/shell"

	"github.com/gin-gonic/gin"
)

// GetSession returns the shell state and drains pending toasts.
func GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, app.State(clientID(c)))
}

func Navigate(c *gin.Context) {
	var input struct {
		View shell.View `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	state, err := app.Navigate(clientID(c), input.View)
	if errors.Is(err, shell.ErrUnknownView) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown view"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func CloseLogin(c *gin.Context) {
	c.JSON(http.StatusOK, app.CloseLogin(clientID(c)))
}

// GetInfo serves the protocol page content.
func GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.Protocol)
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
