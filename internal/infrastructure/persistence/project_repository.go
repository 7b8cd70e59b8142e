package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByIDForOwner finds a project by ID within the owner's projects
func (r *GormProjectRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists the owner's projects with filtering, sorting and pagination
func (r *GormProjectRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	var projectModels []models.ProjectModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Where("owner_id = ?", ownerID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "updated_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).Order("id")

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&projectModels).Error; err != nil {
		return nil, 0, err
	}

	projects := make([]project.Project, len(projectModels))
	for i := range projectModels {
		projects[i] = *projectModels[i].ToDomain()
	}
	return projects, total, nil
}

func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		switch v := status.(type) {
		case project.ProjectStatus:
			if v != "" {
				query = query.Where("status = ?", string(v))
			}
		case string:
			if v != "" {
				query = query.Where("status = ?", v)
			}
		}
	}
	return query
}

// CountActiveForOwner counts the owner's projects that are not archived
func (r *GormProjectRepository) CountActiveForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("owner_id = ? AND status <> ?", ownerID, string(project.ProjectStatusArchived)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// DeleteForOwner removes the project and everything that hangs off it
func (r *GormProjectRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.ProjectModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		for _, child := range []any{&models.LineItemModel{}, &models.WorkflowScreenModel{}, &models.PhotoModel{}} {
			if err := tx.Where("project_id = ? AND owner_id = ?", id, ownerID).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateCopy inserts a duplicated project, its screens and its line items in one transaction
func (r *GormProjectRepository) CreateCopy(ctx context.Context, p *project.Project, screens []*project.WorkflowScreen, items []*project.LineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.ProjectModelFromDomain(p)).Error; err != nil {
			return translateError(err)
		}
		for _, screen := range screens {
			if err := tx.Create(models.WorkflowScreenModelFromDomain(screen)).Error; err != nil {
				return translateError(err)
			}
		}
		if len(items) > 0 {
			created := make([]*models.LineItemModel, len(items))
			for i, item := range items {
				created[i] = models.LineItemModelFromDomain(item)
			}
			if err := tx.CreateInBatches(created, 100).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
