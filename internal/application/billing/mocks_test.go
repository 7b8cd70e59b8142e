package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/identity"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
	"github.com/stretchr/testify/mock"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindPendingCancellation(ctx context.Context, periodEndBefore time.Time) ([]billing.Subscription, error) {
	args := m.Called(ctx, periodEndBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, s *billing.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) PriceForPlan(plan string) (string, error) {
	args := m.Called(plan)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) PlanForPrice(priceID string) string {
	return m.Called(priceID).String(0)
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, input stripebilling.CreateCustomerInput) (*stripebilling.CreateCustomerOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripebilling.CreateCustomerOutput), args.Error(1)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, input stripebilling.CheckoutSessionInput) (*stripebilling.CheckoutSessionOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripebilling.CheckoutSessionOutput), args.Error(1)
}

func (m *MockPaymentGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) GetSubscriptionState(ctx context.Context, subscriptionID string) (billing.State, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).(billing.State), args.Error(1)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type fakeRecorder struct {
	webhooks []string
	swept    []string
}

func (r *fakeRecorder) WebhookProcessed(_ context.Context, eventType, outcome string) {
	r.webhooks = append(r.webhooks, eventType+":"+outcome)
}

func (r *fakeRecorder) SubscriptionSwept(_ context.Context, status string) {
	r.swept = append(r.swept, status)
}
