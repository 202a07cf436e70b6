package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/storeops/rollout-tracker/internal/errors"
	"github.com/storeops/rollout-tracker/internal/middleware"
	"github.com/storeops/rollout-tracker/internal/services"
)

// UploadHandler exposes the media upload endpoint.
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /api/comments/:id/media. Files travel in the
// multipart field "media"; the response reports per-file outcomes.
// Rejected files never fail the batch, so a clean request is always a
// 201 even when nothing got stored.
func (h *UploadHandler) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "invalid multipart form")
		return
	}

	result, err := h.uploadService.Upload(user, id, form.File["media"])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UploadForm handles POST /api/upload, the flat variant that carries
// the comment in the multipart field "comment_id".
func (h *UploadHandler) UploadForm(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "invalid multipart form")
		return
	}

	commentID, err := strconv.ParseUint(c.PostForm("comment_id"), 10, 64)
	if err != nil || commentID == 0 {
		apierrors.BadRequest(c, "comment_id field is required")
		return
	}

	result, err := h.uploadService.Upload(user, commentID, form.File["media"])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
