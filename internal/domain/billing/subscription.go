package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// Status is the provider's subscription lifecycle status
type Status string

const (
	StatusNone              Status = "none"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusTrialing          Status = "trialing"
	StatusActive            Status = "active"
	StatusPastDue           Status = "past_due"
	StatusCanceled          Status = "canceled"
	StatusUnpaid            Status = "unpaid"
	StatusPaused            Status = "paused"
)

var knownStatuses = map[Status]bool{
	StatusNone:              true,
	StatusIncomplete:        true,
	StatusIncompleteExpired: true,
	StatusTrialing:          true,
	StatusActive:            true,
	StatusPastDue:           true,
	StatusCanceled:          true,
	StatusUnpaid:            true,
	StatusPaused:            true,
}

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	return knownStatuses[s]
}

// ParseStatus maps a provider status string to a Status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError("INVALID_SUBSCRIPTION_STATUS", "Unknown subscription status: "+s)
	}
	return st, nil
}

// Subscription is a user's plan as last reported by the payment provider.
// There is at most one per user.
type Subscription struct {
	shared.OwnedAggregateRoot
	StripeCustomerID     string
	StripeSubscriptionID string
	Status               Status
	Plan                 string
	PriceID              string
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool
	CanceledAt           *time.Time
}

// State is a provider snapshot of a subscription
type State struct {
	CustomerID        string
	SubscriptionID    string
	Status            Status
	Plan              string
	PriceID           string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	CanceledAt        *time.Time
}

// NewSubscription creates an empty subscription record for a user
func NewSubscription(ownerID uuid.UUID) (*Subscription, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	return &Subscription{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Status:             StatusNone,
	}, nil
}

// IsActive reports whether the user currently has paid access
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != StatusActive && s.Status != StatusTrialing {
		return false
	}
	return s.CurrentPeriodEnd == nil || s.CurrentPeriodEnd.After(now)
}

// HasCustomer reports whether a provider customer is linked
func (s *Subscription) HasCustomer() bool {
	return s.StripeCustomerID != ""
}

// LinkCustomer records the provider customer id
func (s *Subscription) LinkCustomer(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if s.StripeCustomerID == customerID {
		return nil
	}
	s.StripeCustomerID = customerID
	s.touch()
	return nil
}

// LinkSubscription records the provider subscription id after checkout
func (s *Subscription) LinkSubscription(subscriptionID string) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	if subscriptionID == "" || s.StripeSubscriptionID == subscriptionID {
		return
	}
	s.StripeSubscriptionID = subscriptionID
	s.touch()
}

// Apply overwrites the record with a provider snapshot.
// Returns false when nothing changed.
func (s *Subscription) Apply(st State) (bool, error) {
	if !st.Status.IsValid() {
		return false, shared.NewDomainError("INVALID_SUBSCRIPTION_STATUS", "Unknown subscription status: "+string(st.Status))
	}

	previous := s.Status
	changed := false
	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&s.StripeCustomerID, st.CustomerID)
	set(&s.StripeSubscriptionID, st.SubscriptionID)
	set(&s.Plan, st.Plan)
	set(&s.PriceID, st.PriceID)

	if s.Status != st.Status {
		s.Status = st.Status
		changed = true
	}
	if !timeEqual(s.CurrentPeriodEnd, st.CurrentPeriodEnd) {
		s.CurrentPeriodEnd = st.CurrentPeriodEnd
		changed = true
	}
	if s.CancelAtPeriodEnd != st.CancelAtPeriodEnd {
		s.CancelAtPeriodEnd = st.CancelAtPeriodEnd
		changed = true
	}
	if !timeEqual(s.CanceledAt, st.CanceledAt) {
		s.CanceledAt = st.CanceledAt
		changed = true
	}

	if !changed {
		return false, nil
	}
	s.touch()
	if previous != s.Status {
		s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, previous))
	}
	return true, nil
}

// Cancel marks the subscription canceled
func (s *Subscription) Cancel(at time.Time) {
	if s.Status == StatusCanceled {
		return
	}
	previous := s.Status
	s.Status = StatusCanceled
	s.CancelAtPeriodEnd = false
	s.CanceledAt = &at
	s.touch()
	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, previous))
}

// IsLapsed reports whether a subscription set to cancel at period end has
// run past its period plus grace without the provider telling us.
func (s *Subscription) IsLapsed(now time.Time, grace time.Duration) bool {
	if s.Status == StatusCanceled || !s.CancelAtPeriodEnd || s.CurrentPeriodEnd == nil {
		return false
	}
	return now.After(s.CurrentPeriodEnd.Add(grace))
}

func (s *Subscription) touch() {
	s.Touch()
	s.IncrementVersion()
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
