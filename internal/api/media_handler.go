package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gymapp/backend/internal/service"
)

// MediaHandler serves static media from local directories and brokers
// presigned S3 URLs for uploads.
type MediaHandler struct {
	mediaService service.MediaService
	videoDir     string
	imageDir     string
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService, videoDir, imageDir string) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		videoDir:     videoDir,
		imageDir:     imageDir,
	}
}

// --- DTOs ---

// UploadURLRequest describes the file a manager wants to upload.
type UploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"omitempty,min=0"`
}

// --- Handler Methods ---

// serveFromDir serves a single file by name from a fixed directory.
// The name is flattened to its base so traversal cannot escape the dir.
func (h *MediaHandler) serveFromDir(c *gin.Context, dir string) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == string(filepath.Separator) || strings.Contains(filename, "..") {
		abortWithError(c, http.StatusBadRequest, "Invalid file name")
		return
	}

	fullPath := filepath.Join(dir, filename)
	if _, err := os.Stat(fullPath); err != nil {
		abortWithError(c, http.StatusNotFound, "File not found")
		return
	}
	c.File(fullPath)
}

// GetVideo godoc
// @Summary Serve a video file by name
// @Tags Media
// @Param filename path string true "File name"
// @Success 200 {file} binary
// @Failure 404 {object} gin.H "File not found"
// @Router /video/{filename} [get]
func (h *MediaHandler) GetVideo(c *gin.Context) {
	h.serveFromDir(c, h.videoDir)
}

// GetImage godoc
// @Summary Serve an image file by name
// @Tags Media
// @Param filename path string true "File name"
// @Success 200 {file} binary
// @Failure 404 {object} gin.H "File not found"
// @Router /image/{filename} [get]
func (h *MediaHandler) GetImage(c *gin.Context) {
	h.serveFromDir(c, h.imageDir)
}

// RequestUploadURL godoc
// @Summary Request a presigned URL to upload exercise media
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body UploadURLRequest true "Upload details"
// @Success 201 {object} service.UploadURLResponse
// @Failure 403 {object} gin.H "Forbidden (not a manager)"
// @Router /media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	user, err := getUserFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), user.ID, req.FileName, req.ContentType, req.Size)
	if err != nil {
		if errors.Is(err, service.ErrUploadURLError) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetDownloadURL godoc
// @Summary Get a presigned download URL for an uploaded media file
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Upload ID"
// @Success 200 {object} gin.H "Download URL"
// @Failure 404 {object} gin.H "Upload not found"
// @Router /media/{id}/download-url [get]
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	uploadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid upload ID format")
		return
	}

	url, err := h.mediaService.GetDownloadURL(c.Request.Context(), uploadID)
	if err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
