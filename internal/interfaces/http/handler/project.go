package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/dto"
)

// ProjectService is the project API used by ProjectHandler
type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input appproject.ProjectInput) (*appproject.ProjectResponse, error)
	Get(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.ProjectResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, input appproject.ListProjectsInput) (*appproject.ProjectListResponse, error)
	Update(ctx context.Context, ownerID, projectID uuid.UUID, input appproject.ProjectInput) (*appproject.ProjectResponse, error)
	ChangeStatus(ctx context.Context, ownerID, projectID uuid.UUID, status string) (*appproject.ProjectResponse, error)
	Delete(ctx context.Context, ownerID, projectID uuid.UUID) error
	Duplicate(ctx context.Context, ownerID, projectID uuid.UUID, name string) (*appproject.ProjectResponse, error)
}

// ProjectRequest is the body of project create and update
type ProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ClientName  string `json:"client_name" binding:"max=200"`
	ClientEmail string `json:"client_email" binding:"omitempty,email,max=254"`
	ClientPhone string `json:"client_phone" binding:"max=30"`
	Address     string `json:"address" binding:"max=500"`
	Notes       string `json:"notes" binding:"max=5000"`
}

func (r ProjectRequest) input() appproject.ProjectInput {
	return appproject.ProjectInput{
		Name:        r.Name,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		Address:     r.Address,
		Notes:       r.Notes,
	}
}

// ListProjectsRequest holds the project list query
type ListProjectsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=draft in_progress completed archived"`
}

// ChangeStatusRequest is the body of POST /projects/:id/status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DuplicateRequest is the optional body of POST /projects/:id/duplicate
type DuplicateRequest struct {
	Name string `json:"name" binding:"max=200"`
}

// ProjectHandler serves projects
type ProjectHandler struct {
	BaseHandler
	service ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List returns a page of projects
func (h *ProjectHandler) List(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), ownerID, appproject.ListProjectsInput{
		Status:   req.Status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Create creates a draft project
func (h *ProjectHandler) Create(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Get returns one project
func (h *ProjectHandler) Get(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), ownerID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update replaces the project's descriptive fields
func (h *ProjectHandler) Update(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), ownerID, projectID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ChangeStatus moves the project through its lifecycle
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	p, err := h.service.ChangeStatus(c.Request.Context(), ownerID, projectID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete removes the project
func (h *ProjectHandler) Delete(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), ownerID, projectID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Duplicate copies the project into a new draft
func (h *ProjectHandler) Duplicate(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req DuplicateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	p, err := h.service.Duplicate(c.Request.Context(), ownerID, projectID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// projectScope resolves the current user and the :id project parameter
func (h *BaseHandler) projectScope(c *gin.Context) (ownerID, projectID uuid.UUID, ok bool) {
	if ownerID, ok = h.currentUser(c); !ok {
		return
	}
	projectID, ok = h.pathUUID(c, "id")
	return
}
