package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
	"github.com/shopspring/decimal"
)

// LineItemService is the line item API used by LineItemHandler
type LineItemService interface {
	List(ctx context.Context, ownerID, projectID uuid.UUID, category string) ([]appproject.LineItemResponse, error)
	Create(ctx context.Context, ownerID, projectID uuid.UUID, input appproject.LineItemInput) (*appproject.LineItemResponse, error)
	Update(ctx context.Context, ownerID, projectID, itemID uuid.UUID, input appproject.UpdateLineItemInput) (*appproject.LineItemResponse, error)
	Delete(ctx context.Context, ownerID, projectID, itemID uuid.UUID) error
	Reset(ctx context.Context, ownerID, projectID, itemID uuid.UUID) (*appproject.LineItemResponse, bool, error)
}

// CreateLineItemRequest is the body of POST /projects/:id/line-items
type CreateLineItemRequest struct {
	Category  string          `json:"category" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=labor material"`
	Name      string          `json:"name" binding:"required,max=200"`
	Unit      string          `json:"unit" binding:"max=20"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes" binding:"max=1000"`
}

// UpdateLineItemRequest is the body of PUT /projects/:id/line-items/:itemId
type UpdateLineItemRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=200"`
	Unit      *string          `json:"unit" binding:"omitempty,max=20"`
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes" binding:"omitempty,max=1000"`
}

// LineItemHandler serves the labor and material rows of a project
type LineItemHandler struct {
	BaseHandler
	service LineItemService
}

// NewLineItemHandler creates a new LineItemHandler
func NewLineItemHandler(service LineItemService) *LineItemHandler {
	return &LineItemHandler{service: service}
}

// List returns the project's items, optionally for ?category=
func (h *LineItemHandler) List(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), ownerID, projectID, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Create adds a manual item
func (h *LineItemHandler) Create(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	var req CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), ownerID, projectID, appproject.LineItemInput{
		Category:  req.Category,
		Type:      req.Type,
		Name:      req.Name,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update edits an item
func (h *LineItemHandler) Update(c *gin.Context) {
	ownerID, projectID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}
	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), ownerID, projectID, itemID, appproject.UpdateLineItemInput{
		Name:      req.Name,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes an item
func (h *LineItemHandler) Delete(c *gin.Context) {
	ownerID, projectID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), ownerID, projectID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reset drops the user's edits on a generated item.
// Answers 204 when the item is no longer generated and was removed.
func (h *LineItemHandler) Reset(c *gin.Context) {
	ownerID, projectID, itemID, ok := h.itemScope(c)
	if !ok {
		return
	}
	item, removed, err := h.service.Reset(c.Request.Context(), ownerID, projectID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if removed {
		h.NoContent(c)
		return
	}
	h.Success(c, item)
}

func (h *LineItemHandler) itemScope(c *gin.Context) (ownerID, projectID, itemID uuid.UUID, ok bool) {
	if ownerID, projectID, ok = h.projectScope(c); !ok {
		return
	}
	itemID, ok = h.pathUUID(c, "itemId")
	return
}
