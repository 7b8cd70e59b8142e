package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
	"go.uber.org/zap"
)

// SubscriptionServiceConfig contains dependencies for SubscriptionService
type SubscriptionServiceConfig struct {
	Repo billing.SubscriptionRepository
	// Gateway is nil when Stripe is not configured
	Gateway  PaymentGateway
	Events   shared.EventPublisher
	Recorder Recorder
	Logger   *zap.Logger
}

// SubscriptionService manages the user's plan with the payment provider
type SubscriptionService struct {
	repo     billing.SubscriptionRepository
	gateway  PaymentGateway
	events   shared.EventPublisher
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(cfg SubscriptionServiceConfig) *SubscriptionService {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &SubscriptionService{
		repo:     cfg.Repo,
		gateway:  cfg.Gateway,
		events:   cfg.Events,
		recorder: recorder,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

var errBillingDisabled = shared.NewDomainError("BILLING_DISABLED", "Billing is not configured on this server")

// GetSubscription returns the owner's plan; status is none when they never subscribed
func (s *SubscriptionService) GetSubscription(ctx context.Context, ownerID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.findOrNew(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(sub, s.now()), nil
}

// HasActiveSubscription reports whether the owner currently has paid access
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	sub, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.IsActive(s.now()), nil
}

// CreateCheckoutSession creates the Stripe customer on first use and starts a hosted checkout
func (s *SubscriptionService) CreateCheckoutSession(ctx context.Context, ownerID uuid.UUID, input CheckoutInput) (*CheckoutResponse, error) {
	if s.gateway == nil {
		return nil, errBillingDisabled
	}
	if _, err := s.gateway.PriceForPlan(input.Plan); err != nil {
		return nil, shared.WrapDomainError("UNKNOWN_PLAN", "Unknown plan: "+input.Plan, err)
	}

	sub, err := s.findOrNew(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if sub.IsActive(s.now()) {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "You already have an active subscription. Use the billing portal to change it")
	}

	if !sub.HasCustomer() {
		customer, err := s.gateway.CreateCustomer(ctx, stripebilling.CreateCustomerInput{
			OwnerID: ownerID,
			Email:   input.Email,
			Name:    input.Name,
		})
		if err != nil {
			return nil, shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Failed to create billing customer", err)
		}
		if err := sub.LinkCustomer(customer.CustomerID); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, sub); err != nil {
			return nil, err
		}
	}

	out, err := s.gateway.CreateCheckoutSession(ctx, stripebilling.CheckoutSessionInput{
		OwnerID:    ownerID,
		CustomerID: sub.StripeCustomerID,
		Plan:       input.Plan,
	})
	if err != nil {
		return nil, shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Failed to start checkout", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("owner_id", ownerID.String()),
		zap.String("plan", input.Plan))
	return &CheckoutResponse{SessionID: out.SessionID, URL: out.URL}, nil
}

// CreatePortalSession returns a billing portal link for an existing customer
func (s *SubscriptionService) CreatePortalSession(ctx context.Context, ownerID uuid.UUID) (*PortalResponse, error) {
	if s.gateway == nil {
		return nil, errBillingDisabled
	}
	sub, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if sub == nil || !sub.HasCustomer() {
		return nil, shared.NewDomainError("NO_BILLING_CUSTOMER", "Start a subscription before opening the billing portal")
	}

	url, err := s.gateway.CreatePortalSession(ctx, sub.StripeCustomerID)
	if err != nil {
		return nil, shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Failed to open the billing portal", err)
	}
	return &PortalResponse{URL: url}, nil
}

// SweepLapsed cancels subscriptions whose period ended more than grace ago while
// set to cancel at period end. Each one is refreshed from Stripe first, so a
// subscription renewed without a webhook is kept. Returns the number canceled.
func (s *SubscriptionService) SweepLapsed(ctx context.Context, grace time.Duration) (int, error) {
	now := s.now()
	pending, err := s.repo.FindPendingCancellation(ctx, now.Add(-grace))
	if err != nil {
		return 0, err
	}

	canceled := 0
	for i := range pending {
		sub := &pending[i]
		changed := s.refresh(ctx, sub)
		if sub.IsLapsed(now, grace) {
			sub.Cancel(now)
			changed = true
		}
		if !changed {
			continue
		}

		if err := s.repo.Save(ctx, sub); err != nil {
			s.logger.Error("Failed to save swept subscription",
				zap.String("owner_id", sub.OwnerID.String()),
				zap.Error(err))
			continue
		}
		publishEvents(ctx, s.events, s.logger, sub)
		s.recorder.SubscriptionSwept(ctx, string(sub.Status))
		if sub.Status == billing.StatusCanceled {
			canceled++
		}
	}

	if canceled > 0 {
		s.logger.Info("Lapsed subscriptions canceled", zap.Int("count", canceled))
	}
	return canceled, nil
}

// refresh applies the provider's current state; failures leave the local record as is
func (s *SubscriptionService) refresh(ctx context.Context, sub *billing.Subscription) bool {
	if s.gateway == nil || sub.StripeSubscriptionID == "" {
		return false
	}
	state, err := s.gateway.GetSubscriptionState(ctx, sub.StripeSubscriptionID)
	if err != nil {
		s.logger.Warn("Failed to refresh subscription from Stripe",
			zap.String("subscription_id", sub.StripeSubscriptionID),
			zap.Error(err))
		return false
	}
	changed, err := sub.Apply(state)
	if err != nil {
		s.logger.Warn("Ignoring invalid subscription state",
			zap.String("subscription_id", sub.StripeSubscriptionID),
			zap.Error(err))
		return false
	}
	return changed
}

func (s *SubscriptionService) findOrNew(ctx context.Context, ownerID uuid.UUID) (*billing.Subscription, error) {
	sub, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return billing.NewSubscription(ownerID)
	}
	return sub, err
}

// publishEvents publishes and clears the subscription's pending events
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, sub *billing.Subscription) {
	defer sub.ClearDomainEvents()
	if publisher == nil || len(sub.GetDomainEvents()) == 0 {
		return
	}
	if err := publisher.Publish(ctx, sub.GetDomainEvents()...); err != nil {
		logger.Warn("Failed to publish subscription events", zap.Error(err))
	}
}
