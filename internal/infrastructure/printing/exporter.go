package printing

import (
	"context"
	"fmt"
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/config"
	"go.uber.org/zap"
)

// EstimateExporter turns estimate documents into PDFs
type EstimateExporter struct {
	engine    *TemplateEngine
	renderer  PDFRenderer
	paperSize PaperSize
	timeout   time.Duration
	logger    *zap.Logger
}

// NewEstimateExporter wires a template engine to a renderer
func NewEstimateExporter(engine *TemplateEngine, renderer PDFRenderer, timeout time.Duration, logger *zap.Logger) *EstimateExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateExporter{
		engine:    engine,
		renderer:  renderer,
		paperSize: PaperSizeLetter,
		timeout:   timeout,
		logger:    logger,
	}
}

// NewEstimateExporterFromConfig builds the chromedp backed exporter
func NewEstimateExporterFromConfig(cfg config.PrintingConfig, logger *zap.Logger) (*EstimateExporter, error) {
	engine, err := NewTemplateEngine(NewFormatter(cfg.Locale, cfg.CurrencySymbol), "")
	if err != nil {
		return nil, err
	}
	renderer := NewChromedpRenderer(ChromedpConfig{
		ExecPath:       cfg.ChromePath,
		DefaultTimeout: cfg.Timeout,
		NoSandbox:      true,
		Logger:         logger,
	})
	return NewEstimateExporter(engine, renderer, cfg.Timeout, logger), nil
}

// Export renders doc to PDF bytes
func (e *EstimateExporter) Export(ctx context.Context, doc *EstimateDocument) ([]byte, error) {
	html, err := e.engine.Render(doc)
	if err != nil {
		return nil, err
	}
	result, err := e.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   e.paperSize,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       fmt.Sprintf("Estimate - %s", doc.Project.Name),
		FooterHTML:  estimateFooterTemplate,
		Timeout:     e.timeout,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Estimate exported",
		zap.String("project_id", doc.Project.ID.String()),
		zap.Int("pages", result.PageCount))
	return result.PDFData, nil
}

// Close releases the renderer
func (e *EstimateExporter) Close() error {
	return e.renderer.Close()
}
