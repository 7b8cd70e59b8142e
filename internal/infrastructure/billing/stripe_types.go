package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/stripe/stripe-go/v81"
)

// Metadata keys written on checkout sessions and the subscriptions they create
const (
	MetadataUserID = "user_id"
	MetadataPlanID = "plan_id"
)

// CreateCustomerInput contains input for creating a Stripe customer
type CreateCustomerInput struct {
	OwnerID uuid.UUID
	Email   string
	Name    string
}

// CreateCustomerOutput contains the result of creating a Stripe customer
type CreateCustomerOutput struct {
	CustomerID string
	Email      string
	CreatedAt  time.Time
}

// CheckoutSessionInput contains input for a subscription checkout
type CheckoutSessionInput struct {
	OwnerID    uuid.UUID
	CustomerID string
	Plan       string
}

// CheckoutSessionOutput is the hosted checkout page to redirect to
type CheckoutSessionOutput struct {
	SessionID string
	URL       string
}

// SubscriptionState converts a Stripe subscription into a domain snapshot.
// planForPrice resolves the plan when the subscription carries no plan metadata.
func SubscriptionState(sub *stripe.Subscription, planForPrice func(string) string) billing.State {
	st := billing.State{
		SubscriptionID:    sub.ID,
		Status:            mapStripeSubscriptionStatus(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Plan:              sub.Metadata[MetadataPlanID],
	}
	if sub.Customer != nil {
		st.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		st.PriceID = sub.Items.Data[0].Price.ID
	}
	if st.Plan == "" && st.PriceID != "" && planForPrice != nil {
		st.Plan = planForPrice(st.PriceID)
	}
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		st.CurrentPeriodEnd = &t
	}
	if sub.CanceledAt > 0 {
		t := time.Unix(sub.CanceledAt, 0).UTC()
		st.CanceledAt = &t
	}
	return st
}

// mapStripeSubscriptionStatus maps Stripe subscription status to the domain status
func mapStripeSubscriptionStatus(status stripe.SubscriptionStatus) billing.Status {
	switch status {
	case stripe.SubscriptionStatusActive:
		return billing.StatusActive
	case stripe.SubscriptionStatusPastDue:
		return billing.StatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return billing.StatusCanceled
	case stripe.SubscriptionStatusIncomplete:
		return billing.StatusIncomplete
	case stripe.SubscriptionStatusIncompleteExpired:
		return billing.StatusIncompleteExpired
	case stripe.SubscriptionStatusTrialing:
		return billing.StatusTrialing
	case stripe.SubscriptionStatusUnpaid:
		return billing.StatusUnpaid
	case stripe.SubscriptionStatusPaused:
		return billing.StatusPaused
	default:
		return billing.Status(status)
	}
}
