package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"canal-denuncies/shell"
	"canal-denuncies/wizard"

	"github.com/gin-gonic/gin"
)

const maxUploadFiles = 10

func GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, app.Form(clientID(c)))
}

func UpdateForm(c *gin.Context) {
	var input shell.FormUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, app.UpdateForm(clientID(c), input))
}

// NextStep validates the current step and advances, submitting on the last one.
func NextStep(c *gin.Context) {
	form, err := app.Next(c.Request.Context(), clientID(c))
	switch {
	case errors.Is(err, wizard.ErrUploading):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "form": form})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "No s'ha pogut desar la denúncia", "form": form})
	case form.SubmittedCode != "":
		c.JSON(http.StatusCreated, gin.H{"form": form, "trackingCode": form.SubmittedCode})
	case form.ShowErrors:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Falten camps obligatoris", "form": form})
	default:
		c.JSON(http.StatusOK, gin.H{"form": form})
	}
}

func PrevStep(c *gin.Context) {
	form, ok := app.Back(clientID(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"cancelled": true, "state": app.State(clientID(c))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

func CancelForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cancelled": true, "state": app.Cancel(clientID(c))})
}

// UploadAttachments reads the multipart "files" field. Oversized files are rejected
// per file; the rest are appended in order.
func UploadAttachments(c *gin.Context) {
	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	headers := mf.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}
	if len(headers) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Too many files (max %d)", maxUploadFiles)})
		return
	}

	files := make([]wizard.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read " + fh.Filename})
			return
		}
		// One byte past the limit is enough to reject the file.
		data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read " + fh.Filename})
			return
		}
		files = append(files, wizard.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	form, errs := app.AddAttachments(c.Request.Context(), clientID(c), files)
	rejected := make([]string, 0, len(errs))
	for _, e := range errs {
		rejected = append(rejected, e.Error())
	}
	c.JSON(http.StatusOK, gin.H{"form": form, "rejected": rejected})
}

func DeleteAttachment(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}
	form, err := app.RemoveAttachment(clientID(c), index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "form": form})
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}
