package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// EstimatorMetrics holds the business instruments of the estimator.
// A nil *EstimatorMetrics records nothing.
type EstimatorMetrics struct {
	domainEvents       *Counter
	estimatesGenerated *Counter
	pdfRenders         *Counter
	pdfRenderDuration  *Histogram
	webhooksProcessed  *Counter
	subscriptionsSwept *Counter
}

// NewEstimatorMetrics creates the business instruments on meter
func NewEstimatorMetrics(meter metric.Meter) (*EstimatorMetrics, error) {
	m := &EstimatorMetrics{}
	var err error
	if m.domainEvents, err = NewCounter(meter, "estimator_domain_events_total", "Domain events published", "{event}"); err != nil {
		return nil, err
	}
	if m.estimatesGenerated, err = NewCounter(meter, "estimator_estimates_generated_total", "Line item regenerations by category", "{estimate}"); err != nil {
		return nil, err
	}
	if m.pdfRenders, err = NewCounter(meter, "estimator_pdf_renders_total", "Estimate PDF exports", "{render}"); err != nil {
		return nil, err
	}
	if m.pdfRenderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "estimator_pdf_render_duration_seconds",
		Description: "Estimate PDF render latency",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.webhooksProcessed, err = NewCounter(meter, "estimator_stripe_webhooks_total", "Stripe webhook deliveries by outcome", "{webhook}"); err != nil {
		return nil, err
	}
	if m.subscriptionsSwept, err = NewCounter(meter, "estimator_subscriptions_swept_total", "Subscriptions examined by the lapse sweep", "{subscription}"); err != nil {
		return nil, err
	}
	return m, nil
}

// DomainEvent counts one published event
func (m *EstimatorMetrics) DomainEvent(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.domainEvents.Inc(ctx, AttrEventType.String(eventType))
}

// EstimateGenerated counts one regeneration of a category
func (m *EstimatorMetrics) EstimateGenerated(ctx context.Context, category string) {
	if m == nil {
		return
	}
	m.estimatesGenerated.Inc(ctx, AttrCategory.String(category))
}

// PDFRendered records one export attempt
func (m *EstimatorMetrics) PDFRendered(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.pdfRenders.Inc(ctx, AttrOutcome.String(outcome))
	m.pdfRenderDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// WebhookProcessed counts one webhook delivery
func (m *EstimatorMetrics) WebhookProcessed(ctx context.Context, eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhooksProcessed.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
}

// SubscriptionSwept counts one subscription handled by the sweep, keyed by its resulting status
func (m *EstimatorMetrics) SubscriptionSwept(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.subscriptionsSwept.Inc(ctx, AttrStatus.String(status))
}
