// Package billing talks to Stripe: customers, checkout, the billing portal
// and subscription lookups.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// ErrUnknownPlan is returned when no Stripe price is configured for a plan
var ErrUnknownPlan = errors.New("stripe: no price configured for plan")

// StripeAdapter implements the outbound Stripe calls used by billing
type StripeAdapter struct {
	config *config.StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter and sets the global API key
func NewStripeAdapter(cfg *config.StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		return nil, errors.New("stripe: secret key must start with sk_ or rk_")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stripe.Key = cfg.SecretKey

	return &StripeAdapter{
		config: cfg,
		logger: logger,
	}, nil
}

// PriceForPlan returns the Stripe price id for a plan
func (a *StripeAdapter) PriceForPlan(plan string) (string, error) {
	priceID := a.config.Prices[strings.ToLower(strings.TrimSpace(plan))]
	if priceID == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlan, plan)
	}
	return priceID, nil
}

// PlanForPrice returns the plan configured for a price id, or "" when none is
func (a *StripeAdapter) PlanForPrice(priceID string) string {
	for plan, id := range a.config.Prices {
		if id == priceID {
			return plan
		}
	}
	return ""
}

// CreateCustomer creates a new customer in Stripe
func (a *StripeAdapter) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CreateCustomerOutput, error) {
	a.logger.Debug("Creating Stripe customer",
		zap.String("user_id", input.OwnerID.String()),
		zap.String("email", input.Email))

	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
	}
	if input.Name != "" {
		params.Name = stripe.String(input.Name)
	}
	params.Metadata = map[string]string{
		MetadataUserID: input.OwnerID.String(),
	}
	params.Context = ctx

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("user_id", input.OwnerID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("user_id", input.OwnerID.String()),
		zap.String("customer_id", cust.ID))

	return &CreateCustomerOutput{
		CustomerID: cust.ID,
		Email:      cust.Email,
		CreatedAt:  time.Unix(cust.Created, 0),
	}, nil
}

// CreateCheckoutSession starts a hosted subscription checkout for a customer
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSessionOutput, error) {
	priceID, err := a.PriceForPlan(input.Plan)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		MetadataUserID: input.OwnerID.String(),
		MetadataPlanID: input.Plan,
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(input.CustomerID),
		ClientReferenceID: stripe.String(input.OwnerID.String()),
		SuccessURL:        stripe.String(a.config.SuccessURL),
		CancelURL:         stripe.String(a.config.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Metadata = metadata
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("user_id", input.OwnerID.String()),
			zap.String("plan", input.Plan),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("user_id", input.OwnerID.String()),
		zap.String("session_id", s.ID))

	return &CheckoutSessionOutput{SessionID: s.ID, URL: s.URL}, nil
}

// CreatePortalSession returns a billing portal URL for a customer
func (a *StripeAdapter) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(a.config.PortalReturnURL),
	}
	params.Context = ctx

	s, err := portalsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe billing portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create portal session: %w", err)
	}
	return s.URL, nil
}

// GetSubscription fetches the current state of a subscription from Stripe
func (a *StripeAdapter) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get subscription: %w", err)
	}
	return sub, nil
}

// GetSubscriptionState fetches a subscription and converts it into a domain snapshot
func (a *StripeAdapter) GetSubscriptionState(ctx context.Context, subscriptionID string) (billing.State, error) {
	sub, err := a.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return billing.State{}, err
	}
	return SubscriptionState(sub, a.PlanForPrice), nil
}
