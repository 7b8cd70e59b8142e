// Package event holds the application's domain event subscribers.
package event

import (
	"context"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityHandler writes every domain event to the log
type ActivityHandler struct {
	logger *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{logger: logger.Named("activity")}
}

// EventTypes subscribes to all events
func (h *ActivityHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *ActivityHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("owner_id", event.OwnerID().String()),
		zap.Time("occurred_at", event.OccurredAt()))
	return nil
}
