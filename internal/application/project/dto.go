package project

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/shopspring/decimal"
)

// ProjectInput carries the descriptive fields of a project
type ProjectInput struct {
	Name        string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Address     string
	Notes       string
}

func (in ProjectInput) details() project.Details {
	return project.Details{
		Name:        in.Name,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		ClientPhone: in.ClientPhone,
		Address:     in.Address,
		Notes:       in.Notes,
	}
}

// ListProjectsInput filters and pages the project list
type ListProjectsInput struct {
	Status   string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// ProjectResponse is a project as returned to clients
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectListResponse is one page of projects
type ProjectListResponse struct {
	Items    []ProjectResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		ClientPhone: p.ClientPhone,
		Address:     p.Address,
		Notes:       p.Notes,
		Status:      string(p.Status),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ScreenResponse is one wizard screen
type ScreenResponse struct {
	Category  string          `json:"category"`
	Position  int             `json:"position"`
	Data      json.RawMessage `json:"data"`
	Completed bool            `json:"completed"`
	Saved     bool            `json:"saved"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toScreenResponse(s *project.WorkflowScreen, saved bool) ScreenResponse {
	resp := ScreenResponse{
		Category:  string(s.Category),
		Position:  s.Category.Position(),
		Data:      s.Data,
		Completed: s.Completed,
		Saved:     saved,
	}
	if saved {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// ReconcileSummary counts what a regeneration did
type ReconcileSummary struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Preserved int `json:"preserved"`
}

// SaveScreenResult is returned after saving a screen
type SaveScreenResult struct {
	Screen    ScreenResponse     `json:"screen"`
	Reconcile ReconcileSummary   `json:"reconcile"`
	LineItems []LineItemResponse `json:"line_items"`
}

// LineItemInput carries the fields of a manual line item
type LineItemInput struct {
	Category  string
	Type      string
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Notes     string
}

// UpdateLineItemInput carries line item changes; nil fields are left unchanged
type UpdateLineItemInput struct {
	Name      *string
	Unit      *string
	Quantity  *decimal.Decimal
	UnitPrice *decimal.Decimal
	Notes     *string
}

// LineItemResponse is a line item as returned to clients
type LineItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProjectID       uuid.UUID       `json:"project_id"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	SourceKey       string          `json:"source_key,omitempty"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes"`
	SortOrder       int             `json:"sort_order"`
	IsAutoGenerated bool            `json:"is_auto_generated"`
	IsUserEdited    bool            `json:"is_user_edited"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toLineItemResponse(li *project.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:              li.ID,
		ProjectID:       li.ProjectID,
		Category:        string(li.Category),
		Type:            string(li.Type),
		SourceKey:       li.SourceKey,
		Name:            li.Name,
		Unit:            li.Unit,
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		Total:           li.Total(),
		Notes:           li.Notes,
		SortOrder:       li.SortOrder,
		IsAutoGenerated: li.IsAutoGenerated,
		IsUserEdited:    li.IsUserEdited,
		UpdatedAt:       li.UpdatedAt,
	}
}

func toLineItemResponses(items []project.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i := range items {
		out[i] = toLineItemResponse(&items[i])
	}
	return out
}

// CategoryTotalsResponse is one category of an estimate
type CategoryTotalsResponse struct {
	Category      string          `json:"category"`
	LaborHours    decimal.Decimal `json:"labor_hours"`
	LaborTotal    decimal.Decimal `json:"labor_total"`
	MaterialTotal decimal.Decimal `json:"material_total"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
}

// EstimateResponse is the priced summary of a project
type EstimateResponse struct {
	ProjectID        uuid.UUID                `json:"project_id"`
	Categories       []CategoryTotalsResponse `json:"categories"`
	LaborHours       decimal.Decimal          `json:"labor_hours"`
	LaborSubtotal    decimal.Decimal          `json:"labor_subtotal"`
	MaterialSubtotal decimal.Decimal          `json:"material_subtotal"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	MarkupPercent    decimal.Decimal          `json:"markup_percent"`
	Markup           decimal.Decimal          `json:"markup"`
	TaxRatePercent   decimal.Decimal          `json:"tax_rate_percent"`
	Tax              decimal.Decimal          `json:"tax"`
	GrandTotal       decimal.Decimal          `json:"grand_total"`
}

func toEstimateResponse(projectID uuid.UUID, s estimate.Summary) *EstimateResponse {
	resp := &EstimateResponse{
		ProjectID:        projectID,
		Categories:       make([]CategoryTotalsResponse, len(s.Categories)),
		LaborHours:       s.LaborHours,
		LaborSubtotal:    s.LaborSubtotal,
		MaterialSubtotal: s.MaterialSubtotal,
		Subtotal:         s.Subtotal,
		MarkupPercent:    s.MarkupPercent,
		Markup:           s.Markup,
		TaxRatePercent:   s.TaxRatePercent,
		Tax:              s.Tax,
		GrandTotal:       s.GrandTotal,
	}
	for i, c := range s.Categories {
		resp.Categories[i] = CategoryTotalsResponse{
			Category:      string(c.Category),
			LaborHours:    c.LaborHours,
			LaborTotal:    c.LaborTotal,
			MaterialTotal: c.MaterialTotal,
			Total:         c.Total(),
			ItemCount:     c.ItemCount,
		}
	}
	return resp
}

// PhotoUploadInput describes a photo about to be uploaded
type PhotoUploadInput struct {
	FileName    string
	ContentType string
	Caption     string
}

// PhotoResponse is a project photo with a short-lived download URL
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Caption     string    `json:"caption"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotoUploadResponse tells the client where to PUT the photo bytes
type PhotoUploadResponse struct {
	Photo     PhotoResponse `json:"photo"`
	UploadURL string        `json:"upload_url"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func toPhotoResponse(p *project.Photo, url string) PhotoResponse {
	return PhotoResponse{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		FileName:    p.FileName,
		ContentType: p.ContentType,
		Caption:     p.Caption,
		URL:         url,
		CreatedAt:   p.CreatedAt,
	}
}
