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

// regenerator recalculates one category's generated line items from its screen
type regenerator struct {
	engine            *estimate.Engine
	contractors       contractor.ContractorRepository
	lineItems         project.LineItemRepository
	defaultHourlyRate decimal.Decimal
}

// rates returns the owner's pricing settings. Without a profile the default
// hourly rate applies with no markup or tax.
func (g *regenerator) rates(ctx context.Context, ownerID uuid.UUID) (contractor.Rates, error) {
	c, err := g.contractors.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return contractor.Rates{HourlyRate: g.defaultHourlyRate}, nil
	}
	if err != nil {
		return contractor.Rates{}, err
	}
	return c.Rates(), nil
}

// generate runs the category calculator over the screen. It fails on section data the calculator cannot decode.
func (g *regenerator) generate(ctx context.Context, screen *project.WorkflowScreen) ([]estimate.GeneratedItem, error) {
	rates, err := g.rates(ctx, screen.OwnerID)
	if err != nil {
		return nil, err
	}
	return g.engine.Generate(screen, rates.HourlyRate)
}

// regenerate reconciles the stored items of the screen's category with freshly generated ones
func (g *regenerator) regenerate(ctx context.Context, screen *project.WorkflowScreen) (ReconcileSummary, *project.LineItemsReconciledEvent, error) {
	generated, err := g.generate(ctx, screen)
	if err != nil {
		return ReconcileSummary{}, nil, err
	}
	return g.reconcile(ctx, screen, generated)
}

// reconcile applies generated items to the stored items of the screen's category
func (g *regenerator) reconcile(ctx context.Context, screen *project.WorkflowScreen, generated []estimate.GeneratedItem) (ReconcileSummary, *project.LineItemsReconciledEvent, error) {
	category := screen.Category
	existing, err := g.lineItems.FindByProject(ctx, screen.OwnerID, screen.ProjectID, &category)
	if err != nil {
		return ReconcileSummary{}, nil, err
	}

	plan := estimate.Reconcile(existing, generated)
	changes, err := plan.Changes(screen.OwnerID, screen.ProjectID, category)
	if err != nil {
		return ReconcileSummary{}, nil, err
	}
	if !changes.IsEmpty() {
		if err := g.lineItems.Apply(ctx, changes); err != nil {
			return ReconcileSummary{}, nil, err
		}
	}

	summary := ReconcileSummary{
		Created:   len(changes.Create),
		Updated:   len(changes.Update),
		Deleted:   len(changes.Delete),
		Preserved: len(plan.Preserved),
	}
	event := project.NewLineItemsReconciledEvent(screen.OwnerID, screen.ProjectID, category,
		summary.Created, summary.Updated, summary.Deleted, summary.Preserved)
	return summary, event, nil
}

// eventPublisher publishes domain events and logs failures instead of returning them
type eventPublisher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func (p eventPublisher) publish(ctx context.Context, events ...shared.DomainEvent) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, events...); err != nil {
		p.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

func (p eventPublisher) publishAggregate(ctx context.Context, agg shared.AggregateRoot) {
	p.publish(ctx, agg.GetDomainEvents()...)
	agg.ClearDomainEvents()
}

// requireWritable loads a project and rejects changes to archived projects
func requireWritable(ctx context.Context, projects project.ProjectRepository, ownerID, projectID uuid.UUID) (*project.Project, error) {
	p, err := projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if p.IsArchived() {
		return nil, shared.NewDomainError("INVALID_STATE", "Archived projects are read-only. Restore the project to edit it")
	}
	return p, nil
}
