package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"go.uber.org/zap"
)

// PhotoService manages site photos. Clients upload and download the bytes
// directly through presigned URLs.
type PhotoService struct {
	projects   project.ProjectRepository
	photos     project.PhotoRepository
	storage    ObjectStorage
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(projects project.ProjectRepository, photos project.PhotoRepository, storage ObjectStorage, presignTTL time.Duration, logger *zap.Logger) *PhotoService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &PhotoService{
		projects:   projects,
		photos:     photos,
		storage:    storage,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// RequestUpload registers a photo and returns a presigned PUT URL for its bytes
func (s *PhotoService) RequestUpload(ctx context.Context, ownerID, projectID uuid.UUID, input PhotoUploadInput) (*PhotoUploadResponse, error) {
	if _, err := requireWritable(ctx, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}

	photo, err := project.NewPhoto(ownerID, projectID, input.FileName, input.ContentType, input.Caption)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, photo.StorageKey, photo.ContentType, s.presignTTL)
	if err != nil {
		s.logger.Error("Failed to presign photo upload", zap.Error(err))
		return nil, shared.WrapDomainError("STORAGE_ERROR", "Failed to prepare photo upload", err)
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}

	return &PhotoUploadResponse{
		Photo:     toPhotoResponse(photo, ""),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// List returns the project's photos with download URLs
func (s *PhotoService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]PhotoResponse, error) {
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	photos, err := s.photos.FindByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]PhotoResponse, len(photos))
	for i := range photos {
		url, _, err := s.storage.GenerateDownloadURL(ctx, photos[i].StorageKey, s.presignTTL)
		if err != nil {
			s.logger.Warn("Failed to presign photo download",
				zap.String("photo_id", photos[i].ID.String()),
				zap.Error(err))
			url = ""
		}
		out[i] = toPhotoResponse(&photos[i], url)
	}
	return out, nil
}

// Delete removes a photo and its object
func (s *PhotoService) Delete(ctx context.Context, ownerID, projectID, photoID uuid.UUID) error {
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return err
	}
	photo, err := s.photos.FindByIDForOwner(ctx, ownerID, photoID)
	if err != nil {
		return err
	}
	if photo.ProjectID != projectID {
		return shared.ErrNotFound
	}

	if err := s.photos.DeleteForOwner(ctx, ownerID, photoID); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, photo.StorageKey); err != nil {
		s.logger.Warn("Failed to delete photo object",
			zap.String("key", photo.StorageKey),
			zap.Error(err))
	}
	return nil
}
