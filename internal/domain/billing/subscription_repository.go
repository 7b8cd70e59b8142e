package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionRepository persists subscriptions.
// Finders return shared.ErrNotFound when there is no match.
type SubscriptionRepository interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Subscription, error)
	FindByCustomerID(ctx context.Context, customerID string) (*Subscription, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error)
	// FindPendingCancellation returns subscriptions set to cancel whose period ended before the given time
	FindPendingCancellation(ctx context.Context, periodEndBefore time.Time) ([]Subscription, error)
	// Save inserts or updates the owner's subscription
	Save(ctx context.Context, s *Subscription) error
}
