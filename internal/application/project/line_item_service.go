package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LineItemServiceConfig contains dependencies for LineItemService
type LineItemServiceConfig struct {
	Projects          project.ProjectRepository
	Screens           project.WorkflowScreenRepository
	LineItems         project.LineItemRepository
	Contractors       contractor.ContractorRepository
	Engine            *estimate.Engine
	DefaultHourlyRate decimal.Decimal
	Events            shared.EventPublisher
	Logger            *zap.Logger
}

// LineItemService manages the labor and material rows of a project
type LineItemService struct {
	projects  project.ProjectRepository
	screens   project.WorkflowScreenRepository
	lineItems project.LineItemRepository
	generator *regenerator
	events    eventPublisher
	logger    *zap.Logger
}

// NewLineItemService creates a new LineItemService
func NewLineItemService(cfg LineItemServiceConfig) *LineItemService {
	return &LineItemService{
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

// List returns the project's items in wizard order, optionally for one category
func (s *LineItemService) List(ctx context.Context, ownerID, projectID uuid.UUID, category string) ([]LineItemResponse, error) {
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	var filter *project.Category
	if category != "" {
		cat, err := project.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		filter = &cat
	}

	items, err := s.lineItems.FindByProject(ctx, ownerID, projectID, filter)
	if err != nil {
		return nil, err
	}
	return toLineItemResponses(items), nil
}

// Create adds a manual line item
func (s *LineItemService) Create(ctx context.Context, ownerID, projectID uuid.UUID, input LineItemInput) (*LineItemResponse, error) {
	if _, err := requireWritable(ctx, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}
	category, err := project.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	item, err := project.NewManualLineItem(ownerID, projectID, category, project.LineItemType(input.Type), project.LineItemValues{
		Name:      input.Name,
		Unit:      input.Unit,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := s.lineItems.Save(ctx, item); err != nil {
		return nil, err
	}

	resp := toLineItemResponse(item)
	return &resp, nil
}

// Update edits a line item. A generated item becomes user-edited and stops following the calculators.
func (s *LineItemService) Update(ctx context.Context, ownerID, projectID, itemID uuid.UUID, input UpdateLineItemInput) (*LineItemResponse, error) {
	item, err := s.loadItem(ctx, ownerID, projectID, itemID)
	if err != nil {
		return nil, err
	}

	values := project.LineItemValues{
		Name:      item.Name,
		Unit:      item.Unit,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Notes:     item.Notes,
	}
	if input.Name != nil {
		values.Name = *input.Name
	}
	if input.Unit != nil {
		values.Unit = *input.Unit
	}
	if input.Quantity != nil {
		values.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		values.UnitPrice = *input.UnitPrice
	}
	if input.Notes != nil {
		values.Notes = *input.Notes
	}

	if err := item.Edit(values); err != nil {
		return nil, err
	}
	if err := s.lineItems.Save(ctx, item); err != nil {
		return nil, err
	}

	resp := toLineItemResponse(item)
	return &resp, nil
}

// Delete removes a line item. A deleted generated item comes back on the next regeneration.
func (s *LineItemService) Delete(ctx context.Context, ownerID, projectID, itemID uuid.UUID) error {
	if _, err := s.loadItem(ctx, ownerID, projectID, itemID); err != nil {
		return err
	}
	return s.lineItems.DeleteForOwner(ctx, ownerID, itemID)
}

// Reset drops the user's edits on a generated item and regenerates its category.
// removed is true when the calculator no longer produces the item, so regeneration deleted it.
func (s *LineItemService) Reset(ctx context.Context, ownerID, projectID, itemID uuid.UUID) (item *LineItemResponse, removed bool, err error) {
	current, err := s.loadItem(ctx, ownerID, projectID, itemID)
	if err != nil {
		return nil, false, err
	}
	if err := current.ClearUserEdit(); err != nil {
		return nil, false, err
	}
	if err := s.lineItems.Save(ctx, current); err != nil {
		return nil, false, err
	}

	screen, _, err := loadScreen(ctx, s.screens, ownerID, projectID, current.Category)
	if err != nil {
		return nil, false, err
	}
	_, reconciled, err := s.generator.regenerate(ctx, screen)
	if err != nil {
		return nil, false, err
	}
	s.events.publish(ctx, reconciled)

	refreshed, err := s.lineItems.FindByIDForOwner(ctx, ownerID, itemID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("Reset item no longer generated, removed",
			zap.String("project_id", projectID.String()),
			zap.String("source_key", current.SourceKey))
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	resp := toLineItemResponse(refreshed)
	return &resp, false, nil
}

// loadItem fetches an item of a writable project
func (s *LineItemService) loadItem(ctx context.Context, ownerID, projectID, itemID uuid.UUID) (*project.LineItem, error) {
	if _, err := requireWritable(ctx, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}
	item, err := s.lineItems.FindByIDForOwner(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if item.ProjectID != projectID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}
