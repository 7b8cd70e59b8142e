package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
)

// EstimateService is the totals and export API used by EstimateHandler
type EstimateService interface {
	GetEstimate(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.EstimateResponse, error)
	ExportPDF(ctx context.Context, ownerID, projectID uuid.UUID) (*appproject.PDFExport, error)
}

// EstimateHandler serves project totals and the PDF export
type EstimateHandler struct {
	BaseHandler
	service EstimateService
}

// NewEstimateHandler creates a new EstimateHandler
func NewEstimateHandler(service EstimateService) *EstimateHandler {
	return &EstimateHandler{service: service}
}

// Get returns the estimate summary
func (h *EstimateHandler) Get(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	estimate, err := h.service.GetEstimate(c.Request.Context(), ownerID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, estimate)
}

// ExportPDF streams the estimate as a PDF attachment
func (h *EstimateHandler) ExportPDF(c *gin.Context) {
	ownerID, projectID, ok := h.projectScope(c)
	if !ok {
		return
	}
	export, err := h.service.ExportPDF(c.Request.Context(), ownerID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", export.Data)
}
