package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Stripe event types handled by the webhook
const (
	eventSubscriptionCreated = "customer.subscription.created"
	eventSubscriptionUpdated = "customer.subscription.updated"
	eventSubscriptionDeleted = "customer.subscription.deleted"
	eventCheckoutCompleted   = "checkout.session.completed"
)

// Webhook outcomes reported to the recorder
const (
	outcomeProcessed = "processed"
	outcomeIgnored   = "ignored"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// ErrInvalidSignature is returned when a webhook payload fails verification
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")

// WebhookServiceConfig contains configuration for WebhookService
type WebhookServiceConfig struct {
	WebhookSecret string
	Repo          billing.SubscriptionRepository
	Users         UserLookup
	// PlanForPrice resolves a plan when a subscription has no plan metadata
	PlanForPrice func(priceID string) string
	Idempotency  shared.IdempotencyStore
	DedupeTTL    time.Duration
	Events       shared.EventPublisher
	Recorder     Recorder
	Logger       *zap.Logger
}

// WebhookService applies Stripe webhook events to local subscriptions
type WebhookService struct {
	secret       string
	repo         billing.SubscriptionRepository
	users        UserLookup
	planForPrice func(string) string
	idempotency  shared.IdempotencyStore
	dedupeTTL    time.Duration
	events       shared.EventPublisher
	recorder     Recorder
	logger       *zap.Logger
	now          func() time.Time
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 72 * time.Hour
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &WebhookService{
		secret:       cfg.WebhookSecret,
		repo:         cfg.Repo,
		users:        cfg.Users,
		planForPrice: cfg.PlanForPrice,
		idempotency:  cfg.Idempotency,
		dedupeTTL:    cfg.DedupeTTL,
		events:       cfg.Events,
		recorder:     recorder,
		logger:       cfg.Logger,
		now:          time.Now,
	}
}

// HandleWebhook verifies and applies one Stripe delivery.
// A delivery already processed is acknowledged without being applied again.
// Events for unknown users and unhandled event types are acknowledged too.
func (s *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return nil, shared.WrapDomainError(ErrInvalidSignature.Code, ErrInvalidSignature.Message, err)
	}

	eventType := string(event.Type)
	result := &WebhookResult{EventID: event.ID, EventType: eventType}

	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, event.ID, s.dedupeTTL)
		if err != nil {
			// handlers tolerate redelivery, so process anyway
			s.logger.Warn("Idempotency store unavailable", zap.String("event_id", event.ID), zap.Error(err))
		} else if !fresh {
			s.logger.Info("Duplicate webhook delivery", zap.String("event_id", event.ID))
			result.Duplicate = true
			result.Message = "Event already processed"
			s.recorder.WebhookProcessed(ctx, eventType, outcomeDuplicate)
			return result, nil
		}
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", eventType))

	handled := true
	switch eventType {
	case eventSubscriptionCreated, eventSubscriptionUpdated:
		err = s.handleSubscriptionChanged(ctx, event)
	case eventSubscriptionDeleted:
		err = s.handleSubscriptionDeleted(ctx, event)
	case eventCheckoutCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	default:
		handled = false
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", eventType),
			zap.Error(err))
		if s.idempotency != nil {
			if ferr := s.idempotency.Forget(ctx, event.ID); ferr != nil {
				s.logger.Warn("Failed to release webhook event", zap.String("event_id", event.ID), zap.Error(ferr))
			}
		}
		s.recorder.WebhookProcessed(ctx, eventType, outcomeFailed)
		return nil, err
	}

	if !handled {
		s.logger.Debug("Unhandled webhook event type", zap.String("event_type", eventType))
		result.Message = "Event type not handled"
		s.recorder.WebhookProcessed(ctx, eventType, outcomeIgnored)
		return result, nil
	}

	result.Processed = true
	s.recorder.WebhookProcessed(ctx, eventType, outcomeProcessed)
	return result, nil
}

// handleSubscriptionChanged handles customer.subscription.created and .updated
func (s *WebhookService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}
	return s.applyState(ctx, &sub, stripebilling.SubscriptionState(&sub, s.planForPrice))
}

// handleSubscriptionDeleted handles customer.subscription.deleted
func (s *WebhookService) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	state := stripebilling.SubscriptionState(&sub, s.planForPrice)
	state.Status = billing.StatusCanceled
	state.CancelAtPeriodEnd = false
	if state.CanceledAt == nil {
		now := s.now().UTC()
		state.CanceledAt = &now
	}
	return s.applyState(ctx, &sub, state)
}

func (s *WebhookService) applyState(ctx context.Context, sub *stripe.Subscription, state billing.State) error {
	record, err := s.resolve(ctx, sub.Metadata[stripebilling.MetadataUserID], state.CustomerID, state.SubscriptionID)
	if err != nil {
		return err
	}
	if record == nil {
		s.logger.Warn("No user for Stripe subscription, acknowledging",
			zap.String("subscription_id", state.SubscriptionID),
			zap.String("customer_id", state.CustomerID))
		return nil
	}

	changed, err := record.Apply(state)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	publishEvents(ctx, s.events, s.logger, record)

	s.logger.Info("Subscription updated from Stripe",
		zap.String("owner_id", record.OwnerID.String()),
		zap.String("status", string(record.Status)),
		zap.String("plan", record.Plan))
	return nil
}

// handleCheckoutCompleted links the Stripe customer and subscription to the user who paid
func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	ownerRef := session.ClientReferenceID
	if ownerRef == "" {
		ownerRef = session.Metadata[stripebilling.MetadataUserID]
	}
	ownerID, err := uuid.Parse(ownerRef)
	if err != nil {
		s.logger.Warn("Checkout session without a user reference, acknowledging",
			zap.String("session_id", session.ID))
		return nil
	}

	record, err := s.repo.FindByOwner(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		known, lookupErr := s.knownUser(ctx, ownerID)
		if lookupErr != nil {
			return lookupErr
		}
		if !known {
			s.logger.Warn("Checkout session for an unknown user, acknowledging",
				zap.String("session_id", session.ID),
				zap.String("owner_id", ownerID.String()))
			return nil
		}
		record, err = billing.NewSubscription(ownerID)
	}
	if err != nil {
		return err
	}

	if session.Customer != nil && session.Customer.ID != "" {
		if err := record.LinkCustomer(session.Customer.ID); err != nil {
			return err
		}
	}
	if session.Subscription != nil {
		record.LinkSubscription(session.Subscription.ID)
	}
	if plan := session.Metadata[stripebilling.MetadataPlanID]; plan != "" && record.Plan == "" {
		record.Plan = plan
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	s.logger.Info("Checkout completed",
		zap.String("owner_id", ownerID.String()),
		zap.String("session_id", session.ID))
	return nil
}

// resolve finds the local subscription for a Stripe object: by the user id in
// metadata, then by customer, then by subscription id. A known user without a
// row gets a new record; a user id that matches no user is skipped.
// Returns nil when nothing matches.
func (s *WebhookService) resolve(ctx context.Context, userRef, customerID, subscriptionID string) (*billing.Subscription, error) {
	if ownerID, err := uuid.Parse(userRef); err == nil {
		record, err := s.repo.FindByOwner(ctx, ownerID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		known, err := s.knownUser(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if known {
			return billing.NewSubscription(ownerID)
		}
		s.logger.Warn("Stripe metadata references an unknown user", zap.String("owner_id", ownerID.String()))
	}

	if customerID != "" {
		record, err := s.repo.FindByCustomerID(ctx, customerID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	if subscriptionID != "" {
		record, err := s.repo.FindBySubscriptionID(ctx, subscriptionID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// knownUser reports whether ownerID belongs to a registered user
func (s *WebhookService) knownUser(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	if s.users == nil {
		return true, nil
	}
	_, err := s.users.FindByID(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return true, nil
}
