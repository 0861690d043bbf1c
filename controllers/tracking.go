package controllers

import (
	"errors"
	"net/http"

	"canal-denuncies/tracking"

	"github.com/gin-gonic/gin"
)

func TrackReport(c *gin.Context) {
	summary, err := app.Track(c.Request.Context(), clientID(c), c.Param("code"))
	if errors.Is(err, tracking.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No s'ha trobat cap expedient amb aquest codi"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
