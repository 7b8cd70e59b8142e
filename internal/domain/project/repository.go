package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// ProjectRepository persists projects. Every lookup is scoped by owner.
type ProjectRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Project, error)
	// FindAllForOwner supports Filters["status"] and Search over name, client and address
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Project, int64, error)
	// CountActiveForOwner counts projects that are not archived
	CountActiveForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *Project) error
	// DeleteForOwner removes the project with its screens, line items and photos
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
	// CreateCopy inserts a new project together with its screens and line items.
	// Nothing is written when any insert fails.
	CreateCopy(ctx context.Context, p *Project, screens []*WorkflowScreen, items []*LineItem) error
}

// WorkflowScreenRepository persists wizard screens
type WorkflowScreenRepository interface {
	FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]WorkflowScreen, error)
	FindByProjectAndCategory(ctx context.Context, ownerID, projectID uuid.UUID, category Category) (*WorkflowScreen, error)
	// Upsert inserts the screen or updates the existing row for (project, category)
	Upsert(ctx context.Context, s *WorkflowScreen) error
}

// LineItemChanges is a set of writes applied atomically
type LineItemChanges struct {
	Create []*LineItem
	Update []*LineItem
	Delete []uuid.UUID
}

// IsEmpty reports whether there is nothing to write
func (c LineItemChanges) IsEmpty() bool {
	return len(c.Create) == 0 && len(c.Update) == 0 && len(c.Delete) == 0
}

// LineItemRepository persists line items
type LineItemRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*LineItem, error)
	// FindByProject returns items ordered by category position then sort order.
	// A nil category returns all categories.
	FindByProject(ctx context.Context, ownerID, projectID uuid.UUID, category *Category) ([]LineItem, error)
	Save(ctx context.Context, item *LineItem) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
	Apply(ctx context.Context, changes LineItemChanges) error
}

// PhotoRepository persists photo metadata
type PhotoRepository interface {
	Create(ctx context.Context, p *Photo) error
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Photo, error)
	FindByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]Photo, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
