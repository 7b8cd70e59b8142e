package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	OwnedAggregateModel
	Name        string                `gorm:"type:varchar(200);not null"`
	ClientName  string                `gorm:"type:varchar(200)"`
	ClientEmail string                `gorm:"type:varchar(254)"`
	ClientPhone string                `gorm:"type:varchar(30)"`
	Address     string                `gorm:"type:varchar(500)"`
	Notes       string                `gorm:"type:text"`
	Status      project.ProjectStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		ClientName:         m.ClientName,
		ClientEmail:        m.ClientEmail,
		ClientPhone:        m.ClientPhone,
		Address:            m.Address,
		Notes:              m.Notes,
		Status:             m.Status,
	}
}

// FromDomain populates the persistence model from a domain Project
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.Name = p.Name
	m.ClientName = p.ClientName
	m.ClientEmail = p.ClientEmail
	m.ClientPhone = p.ClientPhone
	m.Address = p.Address
	m.Notes = p.Notes
	m.Status = p.Status
}

// ProjectModelFromDomain creates a new persistence model from a domain Project
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// WorkflowScreenModel is the persistence model for wizard screens.
// (project_id, category) is unique.
type WorkflowScreenModel struct {
	OwnedAggregateModel
	ProjectID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_workflow_screens_project_category"`
	Category  project.Category `gorm:"type:varchar(30);not null;uniqueIndex:idx_workflow_screens_project_category"`
	Data      datatypes.JSON   `gorm:"type:jsonb;not null"`
	Completed bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (WorkflowScreenModel) TableName() string {
	return "workflow_screens"
}

// ToDomain converts the persistence model to a domain WorkflowScreen
func (m *WorkflowScreenModel) ToDomain() *project.WorkflowScreen {
	data := json.RawMessage(m.Data)
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return &project.WorkflowScreen{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ProjectID:          m.ProjectID,
		Category:           m.Category,
		Data:               data,
		Completed:          m.Completed,
	}
}

// FromDomain populates the persistence model from a domain WorkflowScreen
func (m *WorkflowScreenModel) FromDomain(s *project.WorkflowScreen) {
	m.FromDomainOwnedAggregateRoot(s.OwnedAggregateRoot)
	m.ProjectID = s.ProjectID
	m.Category = s.Category
	m.Data = datatypes.JSON(s.Data)
	m.Completed = s.Completed
}

// WorkflowScreenModelFromDomain creates a new persistence model from a domain WorkflowScreen
func WorkflowScreenModelFromDomain(s *project.WorkflowScreen) *WorkflowScreenModel {
	m := &WorkflowScreenModel{}
	m.FromDomain(s)
	return m
}

// LineItemModel is the persistence model for estimate line items
type LineItemModel struct {
	OwnedAggregateModel
	ProjectID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_line_items_project_category"`
	Category        project.Category     `gorm:"type:varchar(30);not null;index:idx_line_items_project_category"`
	Type            project.LineItemType `gorm:"type:varchar(20);not null"`
	SourceKey       string               `gorm:"type:varchar(100)"`
	Name            string               `gorm:"type:varchar(200);not null"`
	Unit            string               `gorm:"type:varchar(20)"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	Notes           string               `gorm:"type:text"`
	SortOrder       int                  `gorm:"not null;default:0"`
	IsAutoGenerated bool                 `gorm:"not null;default:false"`
	IsUserEdited    bool                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *LineItemModel) ToDomain() *project.LineItem {
	return &project.LineItem{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ProjectID:          m.ProjectID,
		Category:           m.Category,
		Type:               m.Type,
		SourceKey:          m.SourceKey,
		Name:               m.Name,
		Unit:               m.Unit,
		Quantity:           m.Quantity,
		UnitPrice:          m.UnitPrice,
		Notes:              m.Notes,
		SortOrder:          m.SortOrder,
		IsAutoGenerated:    m.IsAutoGenerated,
		IsUserEdited:       m.IsUserEdited,
	}
}

// FromDomain populates the persistence model from a domain LineItem
func (m *LineItemModel) FromDomain(li *project.LineItem) {
	m.FromDomainOwnedAggregateRoot(li.OwnedAggregateRoot)
	m.ProjectID = li.ProjectID
	m.Category = li.Category
	m.Type = li.Type
	m.SourceKey = li.SourceKey
	m.Name = li.Name
	m.Unit = li.Unit
	m.Quantity = li.Quantity
	m.UnitPrice = li.UnitPrice
	m.Notes = li.Notes
	m.SortOrder = li.SortOrder
	m.IsAutoGenerated = li.IsAutoGenerated
	m.IsUserEdited = li.IsUserEdited
}

// LineItemModelFromDomain creates a new persistence model from a domain LineItem
func LineItemModelFromDomain(li *project.LineItem) *LineItemModel {
	m := &LineItemModel{}
	m.FromDomain(li)
	return m
}

// PhotoModel is the persistence model for project photos
type PhotoModel struct {
	BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey  string    `gorm:"type:varchar(500);not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Caption     string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PhotoModel) TableName() string {
	return "project_photos"
}

// ToDomain converts the persistence model to a domain Photo
func (m *PhotoModel) ToDomain() *project.Photo {
	return &project.Photo{
		BaseEntity:  shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		OwnerID:     m.OwnerID,
		ProjectID:   m.ProjectID,
		StorageKey:  m.StorageKey,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Caption:     m.Caption,
	}
}

// PhotoModelFromDomain creates a new persistence model from a domain Photo
func PhotoModelFromDomain(p *project.Photo) *PhotoModel {
	m := &PhotoModel{
		OwnerID:     p.OwnerID,
		ProjectID:   p.ProjectID,
		StorageKey:  p.StorageKey,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		Caption:     p.Caption,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
