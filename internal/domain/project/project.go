package project

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// ProjectStatus is the lifecycle state of a renovation project
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

// allowedTransitions lists the statuses reachable from each status
var allowedTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusDraft:      {ProjectStatusInProgress, ProjectStatusArchived},
	ProjectStatusInProgress: {ProjectStatusCompleted, ProjectStatusDraft, ProjectStatusArchived},
	ProjectStatusCompleted:  {ProjectStatusInProgress, ProjectStatusArchived},
	ProjectStatusArchived:   {ProjectStatusDraft},
}

// IsValid reports whether the status is known
func (s ProjectStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether a project in status s may move to target
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Project is one bathroom renovation being estimated for a client
type Project struct {
	shared.OwnedAggregateRoot
	Name        string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Address     string
	Notes       string
	Status      ProjectStatus
}

// Details holds the editable descriptive fields of a project
type Details struct {
	Name        string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Address     string
	Notes       string
}

// NewProject creates a draft project
func NewProject(ownerID uuid.UUID, details Details) (*Project, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	p := &Project{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Status:             ProjectStatusDraft,
	}
	p.applyDetails(details)
	p.AddDomainEvent(NewProjectCreatedEvent(p))
	return p, nil
}

// Update replaces the descriptive fields
func (p *Project) Update(details Details) error {
	if err := validateDetails(details); err != nil {
		return err
	}
	p.applyDetails(details)
	p.touch()
	return nil
}

// ChangeStatus moves the project through its lifecycle
func (p *Project) ChangeStatus(target ProjectStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown project status: "+string(target))
	}
	if p.Status == target {
		return nil
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot change project status from "+string(p.Status)+" to "+string(target))
	}
	old := p.Status
	p.Status = target
	p.touch()
	p.AddDomainEvent(NewProjectStatusChangedEvent(p, old))
	return nil
}

// Duplicate returns a new draft project with the same details and a new name
func (p *Project) Duplicate(name string) (*Project, error) {
	details := p.Details()
	if strings.TrimSpace(name) == "" {
		name = p.Name + " (copy)"
	}
	details.Name = name
	return NewProject(p.OwnerID, details)
}

// Details returns the descriptive fields
func (p *Project) Details() Details {
	return Details{
		Name:        p.Name,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		ClientPhone: p.ClientPhone,
		Address:     p.Address,
		Notes:       p.Notes,
	}
}

// IsArchived reports whether the project is archived
func (p *Project) IsArchived() bool {
	return p.Status == ProjectStatusArchived
}

func (p *Project) applyDetails(d Details) {
	p.Name = strings.TrimSpace(d.Name)
	p.ClientName = strings.TrimSpace(d.ClientName)
	p.ClientEmail = strings.ToLower(strings.TrimSpace(d.ClientEmail))
	p.ClientPhone = strings.TrimSpace(d.ClientPhone)
	p.Address = strings.TrimSpace(d.Address)
	p.Notes = d.Notes
}

func (p *Project) touch() {
	p.Touch()
	p.IncrementVersion()
}

func validateDetails(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(d.ClientName) > 200 {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(d.ClientEmail) > 200 {
		return shared.NewDomainError("INVALID_CLIENT_EMAIL", "Client email cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(d.ClientPhone) > 50 {
		return shared.NewDomainError("INVALID_CLIENT_PHONE", "Client phone cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(d.Address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if utf8.RuneCountInString(d.Notes) > 5000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 5000 characters")
	}
	return nil
}
