package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPhotoRepository implements PhotoRepository using GORM
type GormPhotoRepository struct {
	db *gorm.DB
}

// NewGormPhotoRepository creates a new GormPhotoRepository
func NewGormPhotoRepository(db *gorm.DB) *GormPhotoRepository {
	return &GormPhotoRepository{db: db}
}

// Create stores photo metadata
func (r *GormPhotoRepository) Create(ctx context.Context, p *project.Photo) error {
	return translateError(r.db.WithContext(ctx).Create(models.PhotoModelFromDomain(p)).Error)
}

// FindByIDForOwner finds a photo by ID within the owner's photos
func (r *GormPhotoRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.Photo, error) {
	var model models.PhotoModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProject lists a project's photos, oldest first
func (r *GormPhotoRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]project.Photo, error) {
	var photoModels []models.PhotoModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND owner_id = ?", projectID, ownerID).
		Order("created_at ASC").
		Find(&photoModels).Error; err != nil {
		return nil, err
	}
	photos := make([]project.Photo, len(photoModels))
	for i := range photoModels {
		photos[i] = *photoModels[i].ToDomain()
	}
	return photos, nil
}

// DeleteForOwner deletes the metadata row of one photo
func (r *GormPhotoRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.PhotoModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPhotoRepository implements PhotoRepository
var _ project.PhotoRepository = (*GormPhotoRepository)(nil)
