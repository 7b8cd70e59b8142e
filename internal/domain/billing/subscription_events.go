package billing

import "github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"

// AggregateTypeSubscription is the aggregate type for subscriptions
const AggregateTypeSubscription = "Subscription"

// EventTypeSubscriptionStatusChanged is emitted whenever the status changes
const EventTypeSubscriptionStatusChanged = "SubscriptionStatusChanged"

// SubscriptionStatusChangedEvent is published when a subscription changes status
type SubscriptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	PreviousStatus Status `json:"previous_status"`
	Status         Status `json:"status"`
	Plan           string `json:"plan"`
}

// NewSubscriptionStatusChangedEvent creates a new SubscriptionStatusChangedEvent
func NewSubscriptionStatusChangedEvent(s *Subscription, previous Status) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionStatusChanged, AggregateTypeSubscription, s.ID, s.OwnerID),
		PreviousStatus:  previous,
		Status:          s.Status,
		Plan:            s.Plan,
	}
}
