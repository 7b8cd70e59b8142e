package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/contractor"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/printing"
	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// EstimateServiceConfig contains dependencies for EstimateService
type EstimateServiceConfig struct {
	Projects    project.ProjectRepository
	LineItems   project.LineItemRepository
	Contractors contractor.ContractorRepository
	Storage     ObjectStorage
	// Exporter is nil when PDF export is disabled
	Exporter   EstimateExporter
	Recorder   ExportRecorder
	PresignTTL time.Duration
	Logger     *zap.Logger
}

// EstimateService prices projects and exports estimates
type EstimateService struct {
	projects    project.ProjectRepository
	lineItems   project.LineItemRepository
	contractors contractor.ContractorRepository
	storage     ObjectStorage
	exporter    EstimateExporter
	recorder    ExportRecorder
	presignTTL  time.Duration
	logger      *zap.Logger
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(cfg EstimateServiceConfig) *EstimateService {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	return &EstimateService{
		projects:    cfg.Projects,
		lineItems:   cfg.LineItems,
		contractors: cfg.Contractors,
		storage:     cfg.Storage,
		exporter:    cfg.Exporter,
		recorder:    cfg.Recorder,
		presignTTL:  cfg.PresignTTL,
		logger:      cfg.Logger,
	}
}

// PDFExport is a rendered estimate
type PDFExport struct {
	FileName string
	Data     []byte
}

// GetEstimate totals the project's line items with the contractor's markup and tax
func (s *EstimateService) GetEstimate(ctx context.Context, ownerID, projectID uuid.UUID) (*EstimateResponse, error) {
	if _, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	items, err := s.lineItems.FindByProject(ctx, ownerID, projectID, nil)
	if err != nil {
		return nil, err
	}

	var rates contractor.Rates
	c, err := s.contractors.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		rates = c.Rates()
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	summary := estimate.Summarize(items, rates.MarkupPercent, rates.TaxRatePercent)
	return toEstimateResponse(projectID, summary), nil
}

// ExportPDF renders the project's estimate. A contractor profile is required for the letterhead.
func (s *EstimateService) ExportPDF(ctx context.Context, ownerID, projectID uuid.UUID) (*PDFExport, error) {
	if s.exporter == nil {
		return nil, shared.NewDomainError("PDF_EXPORT_DISABLED", "PDF export is not enabled on this server")
	}

	p, err := s.projects.FindByIDForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	c, err := s.contractors.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("NOT_FOUND", "Create a contractor profile before exporting estimates", err)
		}
		return nil, err
	}
	items, err := s.lineItems.FindByProject(ctx, ownerID, projectID, nil)
	if err != nil {
		return nil, err
	}

	doc := printing.NewEstimateDocument(c, p, items, s.logoURL(ctx, c), time.Now())

	start := time.Now()
	data, err := s.exporter.Export(ctx, doc)
	if s.recorder != nil {
		s.recorder.PDFRendered(ctx, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("Failed to export estimate PDF",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return nil, shared.WrapDomainError("PDF_EXPORT_FAILED", "Failed to render the estimate PDF", err)
	}

	return &PDFExport{FileName: pdfFileName(p), Data: data}, nil
}

func (s *EstimateService) logoURL(ctx context.Context, c *contractor.Contractor) string {
	if !c.HasLogo() || s.storage == nil {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, c.LogoKey, s.presignTTL)
	if err != nil {
		s.logger.Warn("Failed to presign logo for PDF", zap.Error(err))
		return ""
	}
	return url
}

// pdfFileName derives a download name such as estimate-smith-bath.pdf
func pdfFileName(p *project.Project) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(p.Name), "-"), "-")
	if slug == "" {
		slug = p.ID.String()
	}
	return fmt.Sprintf("estimate-%s.pdf", slug)
}
