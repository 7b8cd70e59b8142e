package billing

import (
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
)

// SubscriptionResponse is the caller's plan
type SubscriptionResponse struct {
	Status            string     `json:"status"`
	Plan              string     `json:"plan,omitempty"`
	Active            bool       `json:"active"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`
	HasCustomer       bool       `json:"has_customer"`
}

func toSubscriptionResponse(s *billing.Subscription, now time.Time) *SubscriptionResponse {
	return &SubscriptionResponse{
		Status:            string(s.Status),
		Plan:              s.Plan,
		Active:            s.IsActive(now),
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		CanceledAt:        s.CanceledAt,
		HasCustomer:       s.HasCustomer(),
	}
}

// CheckoutInput starts a subscription checkout
type CheckoutInput struct {
	Email string
	Name  string
	Plan  string
}

// CheckoutResponse is the hosted checkout page to redirect to
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalResponse is the billing portal page to redirect to
type PortalResponse struct {
	URL string `json:"url"`
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}
