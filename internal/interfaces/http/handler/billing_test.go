package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/nsgarcia11/bathroom-estimator/internal/application/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/auth"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) GetSubscription(ctx context.Context, ownerID uuid.UUID) (*appbilling.SubscriptionResponse, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.SubscriptionResponse), args.Error(1)
}

func (m *MockSubscriptionService) CreateCheckoutSession(ctx context.Context, ownerID uuid.UUID, input appbilling.CheckoutInput) (*appbilling.CheckoutResponse, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.CheckoutResponse), args.Error(1)
}

func (m *MockSubscriptionService) CreatePortalSession(ctx context.Context, ownerID uuid.UUID) (*appbilling.PortalResponse, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.PortalResponse), args.Error(1)
}

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*appbilling.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbilling.WebhookResult), args.Error(1)
}

func TestSubscriptionHandler_Get(t *testing.T) {
	ownerID := uuid.New()
	svc := new(MockSubscriptionService)
	svc.On("GetSubscription", mock.Anything, ownerID).Return(&appbilling.SubscriptionResponse{Status: "none"}, nil)

	r := newTestRouter(ownerID)
	r.GET("/billing/subscription", NewSubscriptionHandler(svc).Get)
	w := doJSON(r, http.MethodGet, "/billing/subscription", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"none"`)
}

func TestSubscriptionHandler_Checkout(t *testing.T) {
	ownerID := uuid.New()
	withClaims := func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{UserID: ownerID.String(), Email: "pat@example.com"})
		c.Set(middleware.JWTUserIDKey, ownerID.String())
	}

	t.Run("uses email from token", func(t *testing.T) {
		svc := new(MockSubscriptionService)
		svc.On("CreateCheckoutSession", mock.Anything, ownerID, appbilling.CheckoutInput{
			Email: "pat@example.com",
			Plan:  "pro_monthly",
		}).Return(&appbilling.CheckoutResponse{SessionID: "cs_1", URL: "https://checkout.stripe.test/cs_1"}, nil)

		r := gin.New()
		r.Use(withClaims)
		r.POST("/billing/checkout", NewSubscriptionHandler(svc).Checkout)
		w := doJSON(r, http.MethodPost, "/billing/checkout", CheckoutRequest{Plan: "pro_monthly"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cs_1")
		svc.AssertExpectations(t)
	})

	t.Run("already subscribed", func(t *testing.T) {
		svc := new(MockSubscriptionService)
		svc.On("CreateCheckoutSession", mock.Anything, ownerID, mock.Anything).
			Return(nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Subscription is already active"))

		r := gin.New()
		r.Use(withClaims)
		r.POST("/billing/checkout", NewSubscriptionHandler(svc).Checkout)
		w := doJSON(r, http.MethodPost, "/billing/checkout", CheckoutRequest{Plan: "pro_monthly"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("billing disabled", func(t *testing.T) {
		svc := new(MockSubscriptionService)
		svc.On("CreateCheckoutSession", mock.Anything, ownerID, mock.Anything).
			Return(nil, shared.NewDomainError("BILLING_DISABLED", "Billing is not configured"))

		r := gin.New()
		r.Use(withClaims)
		r.POST("/billing/checkout", NewSubscriptionHandler(svc).Checkout)
		w := doJSON(r, http.MethodPost, "/billing/checkout", CheckoutRequest{Plan: "pro_monthly"})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSubscriptionHandler_Portal(t *testing.T) {
	ownerID := uuid.New()
	svc := new(MockSubscriptionService)
	svc.On("CreatePortalSession", mock.Anything, ownerID).
		Return(nil, shared.NewDomainError("NO_BILLING_CUSTOMER", "No billing account yet"))

	r := newTestRouter(ownerID)
	r.POST("/billing/portal", NewSubscriptionHandler(svc).Portal)
	w := doJSON(r, http.MethodPost, "/billing/portal", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func postWebhook(r http.Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStripeWebhookHandler(t *testing.T) {
	payload := `{"id":"evt_1","type":"customer.subscription.updated"}`

	newRouter := func(svc WebhookService) *gin.Engine {
		r := gin.New()
		r.POST("/webhooks/stripe", NewStripeWebhookHandler(svc).Handle)
		return r
	}

	t.Run("processed", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("HandleWebhook", mock.Anything, []byte(payload), "t=1,v1=abc").Return(&appbilling.WebhookResult{
			EventID:   "evt_1",
			EventType: "customer.subscription.updated",
			Processed: true,
		}, nil)

		w := postWebhook(newRouter(svc), payload, "t=1,v1=abc")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"received":true`)
		assert.Contains(t, w.Body.String(), `"event_id":"evt_1"`)
	})

	t.Run("duplicate acknowledged", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(&appbilling.WebhookResult{EventID: "evt_1", Duplicate: true}, nil)

		w := postWebhook(newRouter(svc), payload, "t=1,v1=abc")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"duplicate":true`)
	})

	t.Run("missing signature", func(t *testing.T) {
		svc := new(MockWebhookService)
		w := postWebhook(newRouter(svc), payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad signature", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.WrapDomainError("INVALID_SIGNATURE", "Webhook signature verification failed", errors.New("mismatch")))

		w := postWebhook(newRouter(svc), payload, "t=1,v1=bad")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("processing failure asks for redelivery", func(t *testing.T) {
		svc := new(MockWebhookService)
		svc.On("HandleWebhook", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		w := postWebhook(newRouter(svc), payload, "t=1,v1=abc")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("oversized payload", func(t *testing.T) {
		svc := new(MockWebhookService)
		w := postWebhook(newRouter(svc), strings.Repeat("x", maxWebhookPayloadSize+1), "t=1,v1=abc")
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		h := NewSystemHandler("1.2.3", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		r := gin.New()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewSystemHandler("1.2.3", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		r := gin.New()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})
}
