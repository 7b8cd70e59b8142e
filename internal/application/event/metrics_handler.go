package event

import (
	"context"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// MetricsRecorder receives counters derived from domain events
type MetricsRecorder interface {
	DomainEvent(ctx context.Context, eventType string)
	EstimateGenerated(ctx context.Context, category string)
}

// MetricsHandler turns domain events into counters
type MetricsHandler struct {
	recorder MetricsRecorder
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(recorder MetricsRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes subscribes to all events
func (h *MetricsHandler) EventTypes() []string {
	return nil
}

// Handle counts the event. Reconciliations that wrote items also count as a generated estimate.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.recorder.DomainEvent(ctx, event.EventType())

	if e, ok := event.(*project.LineItemsReconciledEvent); ok && e.Created+e.Updated+e.Deleted > 0 {
		h.recorder.EstimateGenerated(ctx, string(e.Category))
	}
	return nil
}
