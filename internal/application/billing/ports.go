package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/identity"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
)

// PaymentGateway is the payment provider as seen by billing
type PaymentGateway interface {
	PriceForPlan(plan string) (string, error)
	PlanForPrice(priceID string) string
	CreateCustomer(ctx context.Context, input stripebilling.CreateCustomerInput) (*stripebilling.CreateCustomerOutput, error)
	CreateCheckoutSession(ctx context.Context, input stripebilling.CheckoutSessionInput) (*stripebilling.CheckoutSessionOutput, error)
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	GetSubscriptionState(ctx context.Context, subscriptionID string) (billing.State, error)
}

// UserLookup confirms that a user referenced by Stripe still exists
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// Recorder observes webhook deliveries and sweeps
type Recorder interface {
	WebhookProcessed(ctx context.Context, eventType, outcome string)
	SubscriptionSwept(ctx context.Context, status string)
}

type nopRecorder struct{}

func (nopRecorder) WebhookProcessed(context.Context, string, string) {}
func (nopRecorder) SubscriptionSwept(context.Context, string)        {}
