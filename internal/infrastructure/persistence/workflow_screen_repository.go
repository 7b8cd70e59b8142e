package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkflowScreenRepository implements WorkflowScreenRepository using GORM
type GormWorkflowScreenRepository struct {
	db *gorm.DB
}

// NewGormWorkflowScreenRepository creates a new GormWorkflowScreenRepository
func NewGormWorkflowScreenRepository(db *gorm.DB) *GormWorkflowScreenRepository {
	return &GormWorkflowScreenRepository{db: db}
}

// FindByProject returns the saved screens of a project in wizard order
func (r *GormWorkflowScreenRepository) FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]project.WorkflowScreen, error) {
	var screenModels []models.WorkflowScreenModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND owner_id = ?", projectID, ownerID).
		Order(categoryOrderClause()).
		Find(&screenModels).Error; err != nil {
		return nil, err
	}

	screens := make([]project.WorkflowScreen, len(screenModels))
	for i := range screenModels {
		screens[i] = *screenModels[i].ToDomain()
	}
	return screens, nil
}

// FindByProjectAndCategory returns one screen or shared.ErrNotFound
func (r *GormWorkflowScreenRepository) FindByProjectAndCategory(ctx context.Context, ownerID, projectID uuid.UUID, category project.Category) (*project.WorkflowScreen, error) {
	var model models.WorkflowScreenModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND owner_id = ? AND category = ?", projectID, ownerID, string(category)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Upsert writes the screen keyed on (project_id, category). When a row
// already exists its identity is copied back onto s.
func (r *GormWorkflowScreenRepository) Upsert(ctx context.Context, s *project.WorkflowScreen) error {
	model := models.WorkflowScreenModelFromDomain(s)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "completed", "version", "updated_at"}),
		}).Create(model).Error; err != nil {
			return translateError(err)
		}

		var stored models.WorkflowScreenModel
		if err := tx.
			Where("project_id = ? AND category = ?", s.ProjectID, string(s.Category)).
			First(&stored).Error; err != nil {
			return translateError(err)
		}
		s.ID = stored.ID
		s.CreatedAt = stored.CreatedAt
		return nil
	})
}

// Ensure GormWorkflowScreenRepository implements WorkflowScreenRepository
var _ project.WorkflowScreenRepository = (*GormWorkflowScreenRepository)(nil)
