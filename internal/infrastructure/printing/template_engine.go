package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateEngine executes the estimate HTML template
type TemplateEngine struct {
	tmpl      *template.Template
	formatter *Formatter
}

// NewTemplateEngine parses the estimate template with the formatter's functions.
// An empty source uses the built-in layout.
func NewTemplateEngine(formatter *Formatter, source string) (*TemplateEngine, error) {
	if source == "" {
		source = defaultEstimateTemplate
	}
	tmpl, err := template.New("estimate").Funcs(template.FuncMap{
		"money":    formatter.Money,
		"qty":      formatter.Quantity,
		"percent":  formatter.Percent,
		"title":    formatter.Title,
		"category": formatter.CategoryTitle,
		"date":     func(t time.Time) string { return t.Format("January 2, 2006") },
		"nonzero":  func(d decimal.Decimal) bool { return !d.IsZero() },
	}).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse estimate template: %w", err)
	}
	return &TemplateEngine{tmpl: tmpl, formatter: formatter}, nil
}

// Render executes the template for doc
func (e *TemplateEngine) Render(doc *EstimateDocument) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute estimate template", err)
	}
	return buf.String(), nil
}
