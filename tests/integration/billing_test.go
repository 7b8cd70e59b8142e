//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionObject(ownerID uuid.UUID, status string, periodEnd time.Time) map[string]any {
	return map[string]any{
		"id":                   "sub_" + ownerID.String()[:8],
		"object":               "subscription",
		"customer":             "cus_" + ownerID.String()[:8],
		"status":               status,
		"cancel_at_period_end": false,
		"current_period_end":   periodEnd.Unix(),
		"metadata":             map[string]string{"user_id": ownerID.String()},
		"items": map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "si_1", "object": "subscription_item", "price": map[string]any{"id": "price_pro", "object": "price"}},
			},
		},
	}
}

func TestBilling_SubscriptionLiftsFreePlanLimit(t *testing.T) {
	ts := NewTestServer(t, 1)
	client, user := ts.Register(t, "limit@bath.test")

	w := client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "First"})
	testutil.RequireStatus(t, w, http.StatusCreated)

	w = client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Second"})
	testutil.RequireStatus(t, w, http.StatusPaymentRequired)
	testutil.AssertErrorCode(t, w, "ERR_PLAN_LIMIT")

	object := subscriptionObject(user.User.ID, "active", time.Now().Add(30*24*time.Hour))
	require.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_sub_created", "customer.subscription.created", object))
	// redelivery is acknowledged without reapplying
	require.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_sub_created", "customer.subscription.created", object))

	w = client.Do(t, http.MethodGet, "/api/v1/billing/subscription", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	sub := testutil.Decode[struct {
		Status      string `json:"status"`
		Plan        string `json:"plan"`
		Active      bool   `json:"active"`
		HasCustomer bool   `json:"has_customer"`
	}](t, w).Data
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "pro", sub.Plan)
	assert.True(t, sub.Active)
	assert.True(t, sub.HasCustomer)

	w = client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Second"})
	testutil.RequireStatus(t, w, http.StatusCreated)

	// cancellation brings the free plan limit back
	require.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_sub_deleted", "customer.subscription.deleted",
		subscriptionObject(user.User.ID, "canceled", time.Now())))

	w = client.Do(t, http.MethodPost, "/api/v1/projects", map[string]string{"name": "Third"})
	testutil.RequireStatus(t, w, http.StatusPaymentRequired)
}

func TestBilling_WebhookRejectsBadSignature(t *testing.T) {
	ts := NewTestServer(t, 0)

	client := ts.Client
	client.Header = http.Header{"Stripe-Signature": []string{"t=1,v1=deadbeef"}}
	w := client.Do(t, http.MethodPost, "/api/v1/webhooks/stripe", `{"id":"evt_forged","type":"customer.subscription.created"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBilling_SweepCancelsLapsedSubscriptions(t *testing.T) {
	ts := NewTestServer(t, 0)
	_, user := ts.Register(t, "lapsed@bath.test")

	object := subscriptionObject(user.User.ID, "active", time.Now().Add(-10*24*time.Hour))
	object["cancel_at_period_end"] = true
	require.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_lapsing", "customer.subscription.updated", object))

	swept, err := ts.Subscriptions.SweepLapsed(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	active, err := ts.Subscriptions.HasActiveSubscription(context.Background(), user.User.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestBilling_WebhookForUnknownUserIsAcknowledged(t *testing.T) {
	ts := NewTestServer(t, 0)
	stranger := uuid.New()

	object := subscriptionObject(stranger, "active", time.Now().Add(30*24*time.Hour))
	assert.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_stranger_sub", "customer.subscription.created", object))

	assert.Equal(t, http.StatusOK, ts.SendWebhook(t, "evt_stranger_checkout", "checkout.session.completed", map[string]any{
		"id":                  "cs_stranger",
		"object":              "checkout.session",
		"client_reference_id": stranger.String(),
		"customer":            "cus_stranger",
		"subscription":        "sub_stranger",
	}))

	active, err := ts.Subscriptions.HasActiveSubscription(context.Background(), stranger)
	require.NoError(t, err)
	assert.False(t, active)
}
