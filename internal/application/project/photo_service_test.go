package project

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPhotoService(projects *MockProjectRepository, photos *MockPhotoRepository, storage *MockObjectStorage) *PhotoService {
	return NewPhotoService(projects, photos, storage, time.Minute, zap.NewNop())
}

func TestPhotoService_RequestUpload(t *testing.T) {
	ownerID := uuid.New()

	t.Run("registers photo and presigns upload", func(t *testing.T) {
		projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
		p := newTestProject(t, ownerID, "Smith Bath")
		projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)
		storage.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "image/jpeg", time.Minute).
			Return("https://s3.test/put", time.Now().Add(time.Minute), nil)
		photos.On("Create", mock.Anything, mock.AnythingOfType("*project.Photo")).Return(nil)

		resp, err := newPhotoService(projects, photos, storage).RequestUpload(context.Background(), ownerID, p.ID, PhotoUploadInput{
			FileName:    "../../before.JPG",
			ContentType: "image/jpeg",
			Caption:     "Existing vanity",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://s3.test/put", resp.UploadURL)
		assert.Equal(t, "before.JPG", resp.Photo.FileName)
		assert.Empty(t, resp.Photo.URL)

		key := storage.Calls[0].Arguments.String(1)
		assert.True(t, strings.HasPrefix(key, "projects/"+p.ID.String()+"/photos/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
		p := newTestProject(t, ownerID, "Smith Bath")
		projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)

		_, err := newPhotoService(projects, photos, storage).RequestUpload(context.Background(), ownerID, p.ID, PhotoUploadInput{
			FileName:    "plan.pdf",
			ContentType: "application/pdf",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CONTENT_TYPE", domainErr.Code)
		photos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("presign failure stores nothing", func(t *testing.T) {
		projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
		p := newTestProject(t, ownerID, "Smith Bath")
		projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)
		storage.On("GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, errors.New("no credentials"))

		_, err := newPhotoService(projects, photos, storage).RequestUpload(context.Background(), ownerID, p.ID, PhotoUploadInput{
			FileName:    "a.png",
			ContentType: "image/png",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORAGE_ERROR", domainErr.Code)
		photos.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPhotoService_List(t *testing.T) {
	ownerID := uuid.New()
	projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
	p := newTestProject(t, ownerID, "Smith Bath")
	a, err := project.NewPhoto(ownerID, p.ID, "a.png", "image/png", "")
	require.NoError(t, err)
	b, err := project.NewPhoto(ownerID, p.ID, "b.webp", "image/webp", "")
	require.NoError(t, err)

	projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)
	photos.On("FindByProject", mock.Anything, ownerID, p.ID).Return([]project.Photo{*a, *b}, nil)
	storage.On("GenerateDownloadURL", mock.Anything, a.StorageKey, time.Minute).Return("https://s3.test/a", time.Now(), nil)
	storage.On("GenerateDownloadURL", mock.Anything, b.StorageKey, time.Minute).Return("", time.Time{}, errors.New("boom"))

	list, err := newPhotoService(projects, photos, storage).List(context.Background(), ownerID, p.ID)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://s3.test/a", list[0].URL)
	assert.Empty(t, list[1].URL)
}

func TestPhotoService_Delete(t *testing.T) {
	ownerID := uuid.New()
	p := newTestProject(t, ownerID, "Smith Bath")

	t.Run("removes row then object", func(t *testing.T) {
		projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
		photo, err := project.NewPhoto(ownerID, p.ID, "a.png", "image/png", "")
		require.NoError(t, err)
		projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)
		photos.On("FindByIDForOwner", mock.Anything, ownerID, photo.ID).Return(photo, nil)
		photos.On("DeleteForOwner", mock.Anything, ownerID, photo.ID).Return(nil)
		storage.On("DeleteObject", mock.Anything, photo.StorageKey).Return(nil)

		err = newPhotoService(projects, photos, storage).Delete(context.Background(), ownerID, p.ID, photo.ID)

		require.NoError(t, err)
		storage.AssertCalled(t, "DeleteObject", mock.Anything, photo.StorageKey)
	})

	t.Run("photo of another project", func(t *testing.T) {
		projects, photos, storage := new(MockProjectRepository), new(MockPhotoRepository), new(MockObjectStorage)
		photo, err := project.NewPhoto(ownerID, uuid.New(), "a.png", "image/png", "")
		require.NoError(t, err)
		projects.On("FindByIDForOwner", mock.Anything, ownerID, p.ID).Return(p, nil)
		photos.On("FindByIDForOwner", mock.Anything, ownerID, photo.ID).Return(photo, nil)

		err = newPhotoService(projects, photos, storage).Delete(context.Background(), ownerID, p.ID, photo.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		photos.AssertNotCalled(t, "DeleteForOwner", mock.Anything, mock.Anything, mock.Anything)
		storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})
}
