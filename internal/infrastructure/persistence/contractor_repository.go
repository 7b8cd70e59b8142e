package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractorRepository implements ContractorRepository using GORM
type GormContractorRepository struct {
	db *gorm.DB
}

// NewGormContractorRepository creates a new GormContractorRepository
func NewGormContractorRepository(db *gorm.DB) *GormContractorRepository {
	return &GormContractorRepository{db: db}
}

// FindByOwner returns the profile belonging to ownerID
func (r *GormContractorRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*contractor.Contractor, error) {
	var model models.ContractorModel
	if err := r.db.WithContext(ctx).First(&model, "owner_id = ?", ownerID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a profile. owner_id is unique so a second insert fails with shared.ErrAlreadyExists.
func (r *GormContractorRepository) Create(ctx context.Context, c *contractor.Contractor) error {
	model := models.ContractorModelFromDomain(c)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Save updates an existing profile
func (r *GormContractorRepository) Save(ctx context.Context, c *contractor.Contractor) error {
	model := models.ContractorModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&models.ContractorModel{}).
		Where("id = ? AND owner_id = ?", c.ID, c.OwnerID).
		Select("*").
		Omit("id", "created_at", "owner_id").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormContractorRepository implements ContractorRepository
var _ contractor.ContractorRepository = (*GormContractorRepository)(nil)
