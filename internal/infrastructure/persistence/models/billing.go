package models

import (
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
)

// SubscriptionModel is the persistence model for subscriptions.
// owner_id is unique; stripe_subscription_id is unique when set.
type SubscriptionModel struct {
	OwnedAggregateModel
	StripeCustomerID     string         `gorm:"type:varchar(100);index"`
	StripeSubscriptionID *string        `gorm:"type:varchar(100);uniqueIndex"`
	Status               billing.Status `gorm:"type:varchar(30);not null;default:'none'"`
	Plan                 string         `gorm:"type:varchar(50)"`
	PriceID              string         `gorm:"type:varchar(100)"`
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool `gorm:"not null;default:false"`
	CanceledAt           *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	s := &billing.Subscription{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		StripeCustomerID:   m.StripeCustomerID,
		Status:             m.Status,
		Plan:               m.Plan,
		PriceID:            m.PriceID,
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CancelAtPeriodEnd:  m.CancelAtPeriodEnd,
		CanceledAt:         m.CanceledAt,
	}
	if m.StripeSubscriptionID != nil {
		s.StripeSubscriptionID = *m.StripeSubscriptionID
	}
	return s
}

// FromDomain populates the persistence model from a domain Subscription.
// An empty subscription id is stored as NULL so the unique index ignores it.
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainOwnedAggregateRoot(s.OwnedAggregateRoot)
	m.StripeCustomerID = s.StripeCustomerID
	m.StripeSubscriptionID = nil
	if s.StripeSubscriptionID != "" {
		id := s.StripeSubscriptionID
		m.StripeSubscriptionID = &id
	}
	m.Status = s.Status
	m.Plan = s.Plan
	m.PriceID = s.PriceID
	m.CurrentPeriodEnd = s.CurrentPeriodEnd
	m.CancelAtPeriodEnd = s.CancelAtPeriodEnd
	m.CanceledAt = s.CanceledAt
}

// SubscriptionModelFromDomain creates a new persistence model from a domain Subscription
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}
