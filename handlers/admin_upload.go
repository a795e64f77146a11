package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepycare/backend/internal/storage"
	"github.com/sleepycare/backend/pkg/middleware"
)

// presignExpiry bounds how long a client can hold an upload URL.
const presignExpiry = 15 * time.Minute

// AdminUploadHandler handles direct image uploads and presigned upload URLs
// for the admin dashboard.
type AdminUploadHandler struct {
	images       *storage.ImageStore
	authenticate gin.HandlerFunc
}

func NewAdminUploadHandler(images *storage.ImageStore, authenticate gin.HandlerFunc) *AdminUploadHandler {
	return &AdminUploadHandler{images: images, authenticate: authenticate}
}

func (h *AdminUploadHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin/upload", h.authenticate, middleware.RequireAdmin())
	g.POST("/image", h.UploadImage)
	g.POST("/presigned-url", h.PresignedURL)
}

func (h *AdminUploadHandler) UploadImage(c *gin.Context) {
	data, filename, contentType, ok := readUploadedFile(c, "file")
	if !ok {
		writeValidation(c, "Missing file")
		return
	}
	url, err := h.images.Upload(c.Request.Context(), data, filename, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_url": url})
}

type presignRequest struct {
	Filename string `json:"filename" binding:"required"`
}

func (h *AdminUploadHandler) PresignedURL(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "Missing required field: filename")
		return
	}
	uploadURL, fileURL, key, err := h.images.PresignedUpload(c.Request.Context(), req.Filename, presignExpiry)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Object storage is not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL, "file_url": fileURL, "key": key})
}
