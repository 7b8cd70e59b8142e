package project

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WorkflowServiceConfig contains dependencies for WorkflowService
type WorkflowServiceConfig struct {
	Projects          project.ProjectRepository
	Screens           project.WorkflowScreenRepository
	LineItems         project.LineItemRepository
	Contractors       contractor.ContractorRepository
	Engine            *estimate.Engine
	DefaultHourlyRate decimal.Decimal
	Events            shared.EventPublisher
	Logger            *zap.Logger
}

// WorkflowService serves the estimation wizard screens
type WorkflowService struct {
	projects  project.ProjectRepository
	screens   project.WorkflowScreenRepository
	lineItems project.LineItemRepository
	generator *regenerator
	events    eventPublisher
	logger    *zap.Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(cfg WorkflowServiceConfig) *WorkflowService {
	return &WorkflowService{
		projects:  cfg.Projects,
		screens:   cfg.Screens,
		lineItems: cfg.LineItems,
		generator: &regenerator{
			engine:            cfg.Engine,
			contractors:       cfg.Contractors,
			lineItems:         cfg.LineItems,
			defaultHourlyRate: cfg.DefaultHourlyRate,
		},
		events: eventPublisher{publisher: cfg.Events, logger: cfg.Logger},
		logger: cfg.Logger,
	}
}

// ListScreens returns all seven screens in wizard order. Screens never saved come back empty.
func (s *WorkflowService) ListScreens(ctx context.Context, ownerID, projectID uuid.UUID) ([]ScreenResponse, error) {
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	stored, err := s.screens.FindByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[project.Category]*project.WorkflowScreen, len(stored))
	for i := range stored {
		byCategory[stored[i].Category] = &stored[i]
	}

	categories := project.AllCategories()
	screens := make([]ScreenResponse, 0, len(categories))
	for _, category := range categories {
		if screen, ok := byCategory[category]; ok {
			screens = append(screens, toScreenResponse(screen, true))
			continue
		}
		empty, err := project.NewWorkflowScreen(ownerID, projectID, category)
		if err != nil {
			return nil, err
		}
		screens = append(screens, toScreenResponse(empty, false))
	}
	return screens, nil
}

// GetScreen returns one screen; an unsaved screen comes back empty
func (s *WorkflowService) GetScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string) (*ScreenResponse, error) {
	cat, err := project.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	screen, saved, err := loadScreen(ctx, s.screens, ownerID, projectID, cat)
	if err != nil {
		return nil, err
	}
	resp := toScreenResponse(screen, saved)
	return &resp, nil
}

// SaveScreen stores the screen answers and regenerates the category's line items
func (s *WorkflowService) SaveScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string, data json.RawMessage, completed bool) (*SaveScreenResult, error) {
	cat, err := project.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if _, err := requireWritable(ctx, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}

	screen, _, err := loadScreen(ctx, s.screens, ownerID, projectID, cat)
	if err != nil {
		return nil, err
	}
	if err := screen.Save(data, completed); err != nil {
		return nil, err
	}
	// answers the calculator rejects are never stored
	generated, err := s.generator.generate(ctx, screen)
	if err != nil {
		return nil, err
	}
	if err := s.screens.Upsert(ctx, screen); err != nil {
		return nil, err
	}

	summary, reconciled, err := s.generator.reconcile(ctx, screen, generated)
	if err != nil {
		return nil, err
	}

	items, err := s.lineItems.FindByProject(ctx, ownerID, projectID, &cat)
	if err != nil {
		return nil, err
	}

	s.events.publishAggregate(ctx, screen)
	s.events.publish(ctx, reconciled)

	s.logger.Debug("Screen saved",
		zap.String("project_id", projectID.String()),
		zap.String("category", string(cat)),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("deleted", summary.Deleted),
		zap.Int("preserved", summary.Preserved))

	return &SaveScreenResult{
		Screen:    toScreenResponse(screen, true),
		Reconcile: summary,
		LineItems: toLineItemResponses(items),
	}, nil
}

// loadScreen returns the stored screen, or a new empty one when none was saved yet
func loadScreen(ctx context.Context, screens project.WorkflowScreenRepository, ownerID, projectID uuid.UUID, category project.Category) (*project.WorkflowScreen, bool, error) {
	screen, err := screens.FindByProjectAndCategory(ctx, ownerID, projectID, category)
	if err == nil {
		return screen, true, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	screen, err = project.NewWorkflowScreen(ownerID, projectID, category)
	if err != nil {
		return nil, false, err
	}
	return screen, false, nil
}
