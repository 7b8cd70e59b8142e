package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
)

// PhotoService is the project photo API used by PhotoHandler
type PhotoService interface {
	RequestUpload(ctx context.Context, ownerID, projectID uuid.UUID, input appproject.PhotoUploadInput) (*appproject.PhotoUploadResponse, error)
	List(ctx context.Context, ownerID, projectID uuid.UUID) ([]appproject.PhotoResponse, error)
	Delete(ctx context.Context, ownerID, projectID, photoID uuid.UUID) error
}

// PhotoUploadRequest is the body of POST /projects/:id/photos
type PhotoUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Caption     string `json:"caption" binding:"max=500"`
}

// PhotoHandler serves project photos
type PhotoHandler struct {
	BaseHandler
	service PhotoService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(service PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// List returns the photos with download URLs
func (h *PhotoHandler) List(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	photos, err := h.service.List(c.Request.Context(), ownerID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, photos)
}

// RequestUpload registers a photo and returns its presigned upload URL
func (h *PhotoHandler) RequestUpload(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	upload, err := h.service.RequestUpload(c.Request.Context(), ownerID, projectID, appproject.PhotoUploadInput{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Caption:     req.Caption,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, upload)
}

// Delete removes a photo
func (h *PhotoHandler) Delete(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	photoID, ok := h.pathUUID(c, "photoId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), ownerID, projectID, photoID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
