package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
)

// WorkflowService is the wizard API used by WorkflowHandler
type WorkflowService interface {
	ListScreens(ctx context.Context, ownerID, projectID uuid.UUID) ([]appproject.ScreenResponse, error)
	GetScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string) (*appproject.ScreenResponse, error)
	SaveScreen(ctx context.Context, ownerID, projectID uuid.UUID, category string, data json.RawMessage, completed bool) (*appproject.SaveScreenResult, error)
}

// SaveScreenRequest is the body of PUT /projects/:id/screens/:category
type SaveScreenRequest struct {
	Data      json.RawMessage `json:"data" binding:"required"`
	Completed bool            `json:"completed"`
}

// WorkflowHandler serves the estimation wizard screens
type WorkflowHandler struct {
	BaseHandler
	service WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(service WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// ListScreens returns the seven screens in wizard order
func (h *WorkflowHandler) ListScreens(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	screens, err := h.service.ListScreens(c.Request.Context(), ownerID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, screens)
}

// GetScreen returns one screen
func (h *WorkflowHandler) GetScreen(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	screen, err := h.service.GetScreen(c.Request.Context(), ownerID, projectID, c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, screen)
}

// SaveScreen stores the answers and regenerates the category's line items
func (h *WorkflowHandler) SaveScreen(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req SaveScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.SaveScreen(c.Request.Context(), ownerID, projectID, c.Param("category"), req.Data, req.Completed)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
