package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newSubscriptionService(repo *MockSubscriptionRepository, gateway PaymentGateway, events *MockEventPublisher, recorder Recorder) *SubscriptionService {
	svc := NewSubscriptionService(SubscriptionServiceConfig{
		Repo:     repo,
		Gateway:  gateway,
		Events:   events,
		Recorder: recorder,
		Logger:   zap.NewNop(),
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func activeSubscription(t *testing.T, ownerID uuid.UUID, periodEnd time.Time) *billing.Subscription {
	t.Helper()
	sub, err := billing.NewSubscription(ownerID)
	require.NoError(t, err)
	_, err = sub.Apply(billing.State{
		CustomerID:       "cus_1",
		SubscriptionID:   "sub_1",
		Status:           billing.StatusActive,
		Plan:             "pro",
		PriceID:          "price_pro_monthly",
		CurrentPeriodEnd: &periodEnd,
	})
	require.NoError(t, err)
	sub.ClearDomainEvents()
	return sub
}

func TestSubscriptionService_GetSubscription(t *testing.T) {
	ownerID := uuid.New()

	t.Run("none when never subscribed", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)

		resp, err := newSubscriptionService(repo, nil, nil, nil).GetSubscription(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, "none", resp.Status)
		assert.False(t, resp.Active)
		assert.False(t, resp.HasCustomer)
	})

	t.Run("active", func(t *testing.T) {
		repo := new(MockSubscriptionRepository)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(activeSubscription(t, ownerID, fixedNow.Add(24*time.Hour)), nil)

		resp, err := newSubscriptionService(repo, nil, nil, nil).GetSubscription(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "pro", resp.Plan)
		assert.True(t, resp.Active)
	})
}

func TestSubscriptionService_HasActiveSubscription(t *testing.T) {
	ownerID := uuid.New()
	tests := []struct {
		name   string
		result any
		err    error
		want   bool
	}{
		{"no row", nil, shared.ErrNotFound, false},
		{"active", activeSubscription(t, ownerID, fixedNow.Add(time.Hour)), nil, true},
		{"period ended", activeSubscription(t, ownerID, fixedNow.Add(-time.Hour)), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSubscriptionRepository)
			repo.On("FindByOwner", mock.Anything, ownerID).Return(tt.result, tt.err)

			got, err := newSubscriptionService(repo, nil, nil, nil).HasActiveSubscription(context.Background(), ownerID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	repo := new(MockSubscriptionRepository)
	repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, errors.New("db down"))
	_, err := newSubscriptionService(repo, nil, nil, nil).HasActiveSubscription(context.Background(), ownerID)
	assert.Error(t, err)
}

func TestSubscriptionService_CreateCheckoutSession(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates customer on first checkout", func(t *testing.T) {
		repo, gateway := new(MockSubscriptionRepository), new(MockPaymentGateway)
		gateway.On("PriceForPlan", "pro").Return("price_pro_monthly", nil)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)
		gateway.On("CreateCustomer", mock.Anything, stripebilling.CreateCustomerInput{OwnerID: ownerID, Email: "dana@acme.test", Name: "Dana"}).
			Return(&stripebilling.CreateCustomerOutput{CustomerID: "cus_new"}, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(s *billing.Subscription) bool {
			return s.OwnerID == ownerID && s.StripeCustomerID == "cus_new"
		})).Return(nil)
		gateway.On("CreateCheckoutSession", mock.Anything, stripebilling.CheckoutSessionInput{OwnerID: ownerID, CustomerID: "cus_new", Plan: "pro"}).
			Return(&stripebilling.CheckoutSessionOutput{SessionID: "cs_1", URL: "https://checkout.stripe.test/cs_1"}, nil)

		resp, err := newSubscriptionService(repo, gateway, nil, nil).CreateCheckoutSession(context.Background(), ownerID, CheckoutInput{
			Email: "dana@acme.test",
			Name:  "Dana",
			Plan:  "pro",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.test/cs_1", resp.URL)
		repo.AssertExpectations(t)
	})

	t.Run("reuses existing customer", func(t *testing.T) {
		repo, gateway := new(MockSubscriptionRepository), new(MockPaymentGateway)
		sub := activeSubscription(t, ownerID, fixedNow.Add(-48*time.Hour))
		gateway.On("PriceForPlan", "pro").Return("price_pro_monthly", nil)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(sub, nil)
		gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
			Return(&stripebilling.CheckoutSessionOutput{SessionID: "cs_2", URL: "https://checkout.stripe.test/cs_2"}, nil)

		_, err := newSubscriptionService(repo, gateway, nil, nil).CreateCheckoutSession(context.Background(), ownerID, CheckoutInput{Plan: "pro"})

		require.NoError(t, err)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("already subscribed", func(t *testing.T) {
		repo, gateway := new(MockSubscriptionRepository), new(MockPaymentGateway)
		gateway.On("PriceForPlan", "pro").Return("price_pro_monthly", nil)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(activeSubscription(t, ownerID, fixedNow.Add(time.Hour)), nil)

		_, err := newSubscriptionService(repo, gateway, nil, nil).CreateCheckoutSession(context.Background(), ownerID, CheckoutInput{Plan: "pro"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_SUBSCRIBED", domainErr.Code)
	})

	t.Run("unknown plan", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		gateway.On("PriceForPlan", "gold").Return("", stripebilling.ErrUnknownPlan)

		_, err := newSubscriptionService(new(MockSubscriptionRepository), gateway, nil, nil).
			CreateCheckoutSession(context.Background(), ownerID, CheckoutInput{Plan: "gold"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PLAN", domainErr.Code)
	})

	t.Run("billing disabled", func(t *testing.T) {
		_, err := newSubscriptionService(new(MockSubscriptionRepository), nil, nil, nil).
			CreateCheckoutSession(context.Background(), ownerID, CheckoutInput{Plan: "pro"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BILLING_DISABLED", domainErr.Code)
	})
}

func TestSubscriptionService_CreatePortalSession(t *testing.T) {
	ownerID := uuid.New()

	t.Run("requires a customer", func(t *testing.T) {
		repo, gateway := new(MockSubscriptionRepository), new(MockPaymentGateway)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)

		_, err := newSubscriptionService(repo, gateway, nil, nil).CreatePortalSession(context.Background(), ownerID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_BILLING_CUSTOMER", domainErr.Code)
	})

	t.Run("returns portal url", func(t *testing.T) {
		repo, gateway := new(MockSubscriptionRepository), new(MockPaymentGateway)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(activeSubscription(t, ownerID, fixedNow.Add(time.Hour)), nil)
		gateway.On("CreatePortalSession", mock.Anything, "cus_1").Return("https://billing.stripe.test/p", nil)

		resp, err := newSubscriptionService(repo, gateway, nil, nil).CreatePortalSession(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, "https://billing.stripe.test/p", resp.URL)
	})
}

func pendingCancellation(t *testing.T, ownerID uuid.UUID, periodEnd time.Time) billing.Subscription {
	t.Helper()
	sub := activeSubscription(t, ownerID, periodEnd)
	_, err := sub.Apply(billing.State{Status: billing.StatusActive, CurrentPeriodEnd: &periodEnd, CancelAtPeriodEnd: true})
	require.NoError(t, err)
	sub.ClearDomainEvents()
	return *sub
}

func TestSubscriptionService_SweepLapsed(t *testing.T) {
	grace := 2 * time.Hour
	lapsedOwner, renewedOwner := uuid.New(), uuid.New()
	lapsed := pendingCancellation(t, lapsedOwner, fixedNow.Add(-3*time.Hour))
	renewed := pendingCancellation(t, renewedOwner, fixedNow.Add(-3*time.Hour))
	renewed.StripeSubscriptionID = "sub_renewed"
	lapsed.StripeSubscriptionID = "sub_lapsed"

	repo, gateway, events := new(MockSubscriptionRepository), new(MockPaymentGateway), new(MockEventPublisher)
	recorder := &fakeRecorder{}
	repo.On("FindPendingCancellation", mock.Anything, fixedNow.Add(-grace)).Return([]billing.Subscription{lapsed, renewed}, nil)
	gateway.On("GetSubscriptionState", mock.Anything, "sub_lapsed").Return(billing.State{}, errors.New("stripe down"))
	nextPeriod := fixedNow.Add(30 * 24 * time.Hour)
	gateway.On("GetSubscriptionState", mock.Anything, "sub_renewed").Return(billing.State{
		SubscriptionID:   "sub_renewed",
		Status:           billing.StatusActive,
		CurrentPeriodEnd: &nextPeriod,
	}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	count, err := newSubscriptionService(repo, gateway, events, recorder).SweepLapsed(context.Background(), grace)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"canceled", "active"}, recorder.swept)

	saved := repo.Calls[1].Arguments.Get(1).(*billing.Subscription)
	assert.Equal(t, lapsedOwner, saved.OwnerID)
	assert.Equal(t, billing.StatusCanceled, saved.Status)
	require.NotNil(t, saved.CanceledAt)

	kept := repo.Calls[2].Arguments.Get(1).(*billing.Subscription)
	assert.Equal(t, renewedOwner, kept.OwnerID)
	assert.False(t, kept.CancelAtPeriodEnd)

	published := events.Calls[0].Arguments.Get(1).([]shared.DomainEvent)
	require.Len(t, published, 1)
	assert.Equal(t, billing.EventTypeSubscriptionStatusChanged, published[0].EventType())
	events.AssertNumberOfCalls(t, "Publish", 1)
}
