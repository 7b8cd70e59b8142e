package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLineItemRepository implements LineItemRepository using GORM
type GormLineItemRepository struct {
	db *gorm.DB
}

// NewGormLineItemRepository creates a new GormLineItemRepository
func NewGormLineItemRepository(db *gorm.DB) *GormLineItemRepository {
	return &GormLineItemRepository{db: db}
}

// FindByIDForOwner finds a line item by ID within the owner's items
func (r *GormLineItemRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.LineItem, error) {
	var model models.LineItemModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProject returns the project's items, optionally restricted to one category
func (r *GormLineItemRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID, category *project.Category) ([]project.LineItem, error) {
	query := r.db.WithContext(ctx).Where("project_id = ? AND owner_id = ?", projectID, ownerID)
	if category != nil {
		query = query.Where("category = ?", string(*category))
	}

	var itemModels []models.LineItemModel
	if err := query.
		Order(categoryOrderClause()).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]project.LineItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// Save inserts or updates a single item
func (r *GormLineItemRepository) Save(ctx context.Context, item *project.LineItem) error {
	model := models.LineItemModelFromDomain(item)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// DeleteForOwner deletes one of the owner's items
func (r *GormLineItemRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.LineItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Apply writes a batch of creates, updates and deletes in one transaction
func (r *GormLineItemRepository) Apply(ctx context.Context, changes project.LineItemChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes.Delete) > 0 {
			if err := tx.Where("id IN ?", changes.Delete).Delete(&models.LineItemModel{}).Error; err != nil {
				return err
			}
		}
		for _, item := range changes.Update {
			if err := tx.Save(models.LineItemModelFromDomain(item)).Error; err != nil {
				return translateError(err)
			}
		}
		if len(changes.Create) > 0 {
			created := make([]*models.LineItemModel, len(changes.Create))
			for i, item := range changes.Create {
				created[i] = models.LineItemModelFromDomain(item)
			}
			if err := tx.CreateInBatches(created, 100).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

// Ensure GormLineItemRepository implements LineItemRepository
var _ project.LineItemRepository = (*GormLineItemRepository)(nil)
