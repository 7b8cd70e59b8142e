package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcontractor "github.com/nsgarcia11/bathroom-estimator/internal/application/contractor"
	"github.com/shopspring/decimal"
)

// ContractorService is the profile API used by ContractorHandler
type ContractorService interface {
	GetProfile(ctx context.Context, ownerID uuid.UUID) (*appcontractor.ProfileResponse, error)
	CreateProfile(ctx context.Context, ownerID uuid.UUID, input appcontractor.ProfileInput) (*appcontractor.ProfileResponse, error)
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, input appcontractor.ProfileInput) (*appcontractor.ProfileResponse, error)
	UpsertProfile(ctx context.Context, ownerID uuid.UUID, input appcontractor.ProfileInput) (*appcontractor.ProfileResponse, error)
	RequestLogoUpload(ctx context.Context, ownerID uuid.UUID, contentType string) (*appcontractor.LogoUploadResponse, error)
}

// ProfileRequest is the body of the contractor endpoints. Omitted fields are left unchanged.
type ProfileRequest struct {
	CompanyName    *string          `json:"company_name" binding:"omitempty,max=200"`
	ContactName    *string          `json:"contact_name" binding:"omitempty,max=100"`
	Email          *string          `json:"email" binding:"omitempty,max=254"`
	Phone          *string          `json:"phone" binding:"omitempty,max=30"`
	Address        *string          `json:"address" binding:"omitempty,max=500"`
	LicenseNumber  *string          `json:"license_number" binding:"omitempty,max=100"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate"`
	MarkupPercent  *decimal.Decimal `json:"markup_percent"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
}

func (r ProfileRequest) input() appcontractor.ProfileInput {
	return appcontractor.ProfileInput{
		CompanyName:    r.CompanyName,
		ContactName:    r.ContactName,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		LicenseNumber:  r.LicenseNumber,
		HourlyRate:     r.HourlyRate,
		MarkupPercent:  r.MarkupPercent,
		TaxRatePercent: r.TaxRatePercent,
	}
}

// LogoUploadRequest is the body of POST /contractor/logo
type LogoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ContractorHandler serves the contractor profile
type ContractorHandler struct {
	BaseHandler
	service ContractorService
}

// NewContractorHandler creates a new ContractorHandler
func NewContractorHandler(service ContractorService) *ContractorHandler {
	return &ContractorHandler{service: service}
}

// Get returns the profile
func (h *ContractorHandler) Get(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Create creates the profile
func (h *ContractorHandler) Create(c *gin.Context) {
	h.save(c, h.service.CreateProfile, true)
}

// Upsert creates or replaces the profile
func (h *ContractorHandler) Upsert(c *gin.Context) {
	h.save(c, h.service.UpsertProfile, false)
}

// Update changes the given profile fields
func (h *ContractorHandler) Update(c *gin.Context) {
	h.save(c, h.service.UpdateProfile, false)
}

type profileWriter func(context.Context, uuid.UUID, appcontractor.ProfileInput) (*appcontractor.ProfileResponse, error)

func (h *ContractorHandler) save(c *gin.Context, write profileWriter, created bool) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := write(c.Request.Context(), ownerID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if created {
		h.Created(c, profile)
		return
	}
	h.Success(c, profile)
}

// RequestLogoUpload returns a presigned URL for a new logo
func (h *ContractorHandler) RequestLogoUpload(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req LogoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	upload, err := h.service.RequestLogoUpload(c.Request.Context(), ownerID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}
