package controllers

import (
	"bytes"
	"errors"
	"net/http"

	"canal-denuncies/auth"
	"canal-denuncies/dashboard"
	"canal-denuncies/models"
	"canal-denuncies/shell"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidStatus),
		errors.Is(err, auth.ErrPINTooShort):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoPendingDelete):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// GetAllReports lists the admin's collection, optionally filtered by ?q=.
func GetAllReports(c *gin.Context) {
	reports, err := app.Reports(sessionID(c), c.Query("q"))
	if err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func GetStats(c *gin.Context) {
	stats, err := app.Stats(sessionID(c))
	if err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func GetReportByID(c *gin.Context) {
	report, err := app.Report(sessionID(c), c.Param("id"))
	if err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func UpdateStatus(c *gin.Context) {
	var input struct {
		Status models.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := app.ChangeStatus(c.Request.Context(), sessionID(c), c.Param("id"), input.Status)
	if err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func UpdateObservations(c *gin.Context) {
	var input struct {
		Observations string `json:"observations"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := app.SaveObservations(c.Request.Context(), sessionID(c), c.Param("id"), input.Observations)
	if err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// RequestDelete arms the confirmation step of a delete.
func RequestDelete(c *gin.Context) {
	id := c.Param("id")
	if err := app.RequestDelete(sessionID(c), id); err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Estàs segur que vols eliminar definitivament l'expedient #" + id + "? Aquesta acció no es pot desfer.",
		"id":      id,
	})
}

func DeleteReport(c *gin.Context) {
	if err := app.ConfirmDelete(c.Request.Context(), sessionID(c), c.Param("id")); err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

func PrintReport(c *gin.Context) {
	var buf bytes.Buffer
	if err := app.Print(&buf, sessionID(c), c.Param("id")); err != nil {
		adminError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SyncReports is the manual "Sincronitzar ara".
func SyncReports(c *gin.Context) {
	state, err := app.Sync(c.Request.Context(), sessionID(c))
	if err != nil {
		if errors.Is(err, shell.ErrNotAdmin) {
			adminError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": state, "error": "Sincronització fallida, es mostren dades locals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func UpdatePIN(c *gin.Context) {
	var input struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := app.UpdatePIN(c.Request.Context(), sessionID(c), input.PIN); err != nil {
		adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN updated successfully"})
}
