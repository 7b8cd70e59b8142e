package project

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// allowedPhotoTypes maps accepted image content types to file extensions
var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// Photo is a site photo attached to a project. The bytes live in object storage.
type Photo struct {
	shared.BaseEntity
	OwnerID     uuid.UUID
	ProjectID   uuid.UUID
	StorageKey  string
	FileName    string
	ContentType string
	Caption     string
}

// NewPhoto registers a photo and derives its storage key
func NewPhoto(ownerID, projectID uuid.UUID, fileName, contentType, caption string) (*Photo, error) {
	ext, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Photos must be JPEG, PNG, WebP or HEIC images")
	}
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if utf8.RuneCountInString(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(caption) > 500 {
		return nil, shared.NewDomainError("INVALID_CAPTION", "Caption cannot exceed 500 characters")
	}

	p := &Photo{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerID:     ownerID,
		ProjectID:   projectID,
		FileName:    fileName,
		ContentType: strings.ToLower(contentType),
		Caption:     strings.TrimSpace(caption),
	}
	p.StorageKey = "projects/" + projectID.String() + "/photos/" + p.ID.String() + ext
	return p, nil
}

// IsAllowedImageType reports whether a content type may be uploaded as an image
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	return ok
}

// ImageExtension returns the file extension for an allowed image content type
func ImageExtension(contentType string) string {
	return allowedPhotoTypes[strings.ToLower(contentType)]
}
