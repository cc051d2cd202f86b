package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/api/dto"
	"github.com/Hoddity/virt/internal/objstore"
)

// maxUploadBytes caps attachment size at 10 MiB
const maxUploadBytes = 10 << 20

// UploadHandler stores multipart file uploads in object storage
type UploadHandler struct {
	uploader objstore.Uploader
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader objstore.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload accepts a multipart form with a "file" part, stores it under
// a generated key and returns the public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "A multipart \"file\" part is required",
			Timestamp: time.Now(),
		})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error:     "File too large",
			Message:   "Uploads are limited to 10 MiB",
			Timestamp: time.Now(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "Failed to read uploaded file",
			Timestamp: time.Now(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to store file",
			Message:   "Internal server error occurred while reading the file",
			Timestamp: time.Now(),
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.uploader.Upload(c.Request.Context(), data, header.Filename, contentType)
	if err != nil {
		if errors.Is(err, objstore.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error:     "Uploads unavailable",
				Message:   "Object storage is not configured",
				Timestamp: time.Now(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to store file",
			Message:   "Internal server error occurred while uploading the file",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{URL: url})
}
