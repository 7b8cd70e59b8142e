package project

import (
	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeProject        = "Project"
	AggregateTypeWorkflowScreen = "WorkflowScreen"
)

// Project domain event types
const (
	EventTypeProjectCreated       = "ProjectCreated"
	EventTypeProjectStatusChanged = "ProjectStatusChanged"
	EventTypeProjectDeleted       = "ProjectDeleted"
	EventTypeScreenSaved          = "ScreenSaved"
	EventTypeLineItemsReconciled  = "LineItemsReconciled"
)

// ProjectCreatedEvent is published when a project is created
type ProjectCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectCreatedEvent creates a new ProjectCreatedEvent
func NewProjectCreatedEvent(p *Project) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectCreated, AggregateTypeProject, p.ID, p.OwnerID),
		Name:            p.Name,
	}
}

// ProjectStatusChangedEvent is published on every status transition
type ProjectStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus ProjectStatus `json:"old_status"`
	NewStatus ProjectStatus `json:"new_status"`
}

// NewProjectStatusChangedEvent creates a new ProjectStatusChangedEvent
func NewProjectStatusChangedEvent(p *Project, old ProjectStatus) *ProjectStatusChangedEvent {
	return &ProjectStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectStatusChanged, AggregateTypeProject, p.ID, p.OwnerID),
		OldStatus:       old,
		NewStatus:       p.Status,
	}
}

// ProjectDeletedEvent is published after a project and its children are removed
type ProjectDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProjectDeletedEvent creates a new ProjectDeletedEvent
func NewProjectDeletedEvent(p *Project) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProjectDeleted, AggregateTypeProject, p.ID, p.OwnerID),
		Name:            p.Name,
	}
}

// ScreenSavedEvent is published when a wizard screen is saved
type ScreenSavedEvent struct {
	shared.BaseDomainEvent
	ProjectID uuid.UUID `json:"project_id"`
	Category  Category  `json:"category"`
	Completed bool      `json:"completed"`
}

// NewScreenSavedEvent creates a new ScreenSavedEvent
func NewScreenSavedEvent(s *WorkflowScreen) *ScreenSavedEvent {
	return &ScreenSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeScreenSaved, AggregateTypeWorkflowScreen, s.ID, s.OwnerID),
		ProjectID:       s.ProjectID,
		Category:        s.Category,
		Completed:       s.Completed,
	}
}

// LineItemsReconciledEvent summarises a regeneration of one category
type LineItemsReconciledEvent struct {
	shared.BaseDomainEvent
	Category  Category `json:"category"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Deleted   int      `json:"deleted"`
	Preserved int      `json:"preserved"`
}

// NewLineItemsReconciledEvent creates a new LineItemsReconciledEvent
func NewLineItemsReconciledEvent(ownerID, projectID uuid.UUID, category Category, created, updated, deleted, preserved int) *LineItemsReconciledEvent {
	return &LineItemsReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineItemsReconciled, AggregateTypeProject, projectID, ownerID),
		Category:        category,
		Created:         created,
		Updated:         updated,
		Deleted:         deleted,
		Preserved:       preserved,
	}
}
