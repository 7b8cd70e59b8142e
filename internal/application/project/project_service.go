package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"go.uber.org/zap"
)

// ProjectServiceConfig contains dependencies for ProjectService
type ProjectServiceConfig struct {
	Projects      project.ProjectRepository
	Screens       project.WorkflowScreenRepository
	LineItems     project.LineItemRepository
	Photos        project.PhotoRepository
	Storage       ObjectStorage
	Subscriptions SubscriptionChecker
	Events        shared.EventPublisher
	// FreeProjectLimit caps non-archived projects without a subscription; zero disables the cap
	FreeProjectLimit int
	Logger           *zap.Logger
}

// ProjectService manages renovation projects
type ProjectService struct {
	projects         project.ProjectRepository
	screens          project.WorkflowScreenRepository
	lineItems        project.LineItemRepository
	photos           project.PhotoRepository
	storage          ObjectStorage
	subscriptions    SubscriptionChecker
	events           eventPublisher
	freeProjectLimit int
	logger           *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(cfg ProjectServiceConfig) *ProjectService {
	return &ProjectService{
		projects:         cfg.Projects,
		screens:          cfg.Screens,
		lineItems:        cfg.LineItems,
		photos:           cfg.Photos,
		storage:          cfg.Storage,
		subscriptions:    cfg.Subscriptions,
		events:           eventPublisher{publisher: cfg.Events, logger: cfg.Logger},
		freeProjectLimit: cfg.FreeProjectLimit,
		logger:           cfg.Logger,
	}
}

// Create creates a draft project
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, input ProjectInput) (*ProjectResponse, error) {
	if err := s.checkPlanLimit(ctx, ownerID); err != nil {
		return nil, err
	}

	p, err := project.NewProject(ownerID, input.details())
	if err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	s.events.publishAggregate(ctx, p)

	s.logger.Info("Project created",
		zap.String("owner_id", ownerID.String()),
		zap.String("project_id", p.ID.String()))
	resp := toProjectResponse(p)
	return &resp, nil
}

// Get returns one of the owner's projects
func (s *ProjectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

// List returns a page of the owner's projects
func (s *ProjectService) List(ctx context.Context, ownerID uuid.UUID, input ListProjectsInput) (*ProjectListResponse, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "updated_at"
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = min(input.PageSize, 100)
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	filter.Search = input.Search
	if input.Status != "" {
		status := project.ProjectStatus(input.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown project status: "+input.Status)
		}
		filter.Filters["status"] = string(status)
	}

	projects, total, err := s.projects.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = toProjectResponse(&projects[i])
	}
	return &ProjectListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update replaces the descriptive fields of a project
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID uuid.UUID, input ProjectInput) (*ProjectResponse, error) {
	p, err := requireWritable(ctx, s.projects, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if err := p.Update(input.details()); err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

// ChangeStatus moves a project through its lifecycle.
// Restoring an archived project counts against the free plan limit.
func (s *ProjectService) ChangeStatus(ctx context.Context, ownerID, projectID uuid.UUID, status string) (*ProjectResponse, error) {
	p, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	target := project.ProjectStatus(status)
	if p.IsArchived() && target != project.ProjectStatusArchived {
		if err := s.checkPlanLimit(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	if err := p.ChangeStatus(target); err != nil {
		return nil, err
	}
	if err := s.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	s.events.publishAggregate(ctx, p)

	resp := toProjectResponse(p)
	return &resp, nil
}

// Delete removes a project with its screens, line items and photos
func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	p, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	photos, err := s.photos.FindByProject(ctx, ownerID, projectID)
	if err != nil {
		return err
	}

	if err := s.projects.DeleteForOwner(ctx, ownerID, projectID); err != nil {
		return err
	}

	for _, photo := range photos {
		if err := s.storage.DeleteObject(ctx, photo.StorageKey); err != nil {
			s.logger.Warn("Failed to delete photo object",
				zap.String("project_id", projectID.String()),
				zap.String("key", photo.StorageKey),
				zap.Error(err))
		}
	}

	s.events.publish(ctx, project.NewProjectDeletedEvent(p))
	s.logger.Info("Project deleted",
		zap.String("owner_id", ownerID.String()),
		zap.String("project_id", projectID.String()),
		zap.Int("photos", len(photos)))
	return nil
}

// Duplicate copies a project with its screens and line items into a new draft.
// Photos are not copied.
func (s *ProjectService) Duplicate(ctx context.Context, ownerID, projectID uuid.UUID, name string) (*ProjectResponse, error) {
	src, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlanLimit(ctx, ownerID); err != nil {
		return nil, err
	}

	dup, err := src.Duplicate(name)
	if err != nil {
		return nil, err
	}

	screens, err := s.screens.FindByProject(ctx, ownerID, src.ID)
	if err != nil {
		return nil, err
	}
	copiedScreens := make([]*project.WorkflowScreen, 0, len(screens))
	for _, screen := range screens {
		copied, err := project.NewWorkflowScreen(ownerID, dup.ID, screen.Category)
		if err != nil {
			return nil, err
		}
		if err := copied.Save(screen.Data, screen.Completed); err != nil {
			return nil, err
		}
		copied.ClearDomainEvents()
		copiedScreens = append(copiedScreens, copied)
	}

	items, err := s.lineItems.FindByProject(ctx, ownerID, src.ID, nil)
	if err != nil {
		return nil, err
	}
	copiedItems := make([]*project.LineItem, len(items))
	for i := range items {
		copiedItems[i] = items[i].CopyTo(dup.ID)
	}

	if err := s.projects.CreateCopy(ctx, dup, copiedScreens, copiedItems); err != nil {
		return nil, err
	}

	s.events.publishAggregate(ctx, dup)
	s.logger.Info("Project duplicated",
		zap.String("source_id", src.ID.String()),
		zap.String("project_id", dup.ID.String()),
		zap.Int("screens", len(screens)),
		zap.Int("line_items", len(items)))

	resp := toProjectResponse(dup)
	return &resp, nil
}

// checkPlanLimit enforces the free plan's cap on non-archived projects
func (s *ProjectService) checkPlanLimit(ctx context.Context, ownerID uuid.UUID) error {
	if s.freeProjectLimit <= 0 || s.subscriptions == nil {
		return nil
	}

	active, err := s.subscriptions.HasActiveSubscription(ctx, ownerID)
	if err != nil {
		return err
	}
	if active {
		return nil
	}

	count, err := s.projects.CountActiveForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if count >= int64(s.freeProjectLimit) {
		return shared.NewDomainError("PLAN_LIMIT",
			fmt.Sprintf("The free plan allows %d active projects. Subscribe or archive a project to continue", s.freeProjectLimit))
	}
	return nil
}
