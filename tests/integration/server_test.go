//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/nsgarcia11/bathroom-estimator/internal/application/billing"
	contractorapp "github.com/nsgarcia11/bathroom-estimator/internal/application/contractor"
	identityapp "github.com/nsgarcia11/bathroom-estimator/internal/application/identity"
	projectapp "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/auth"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/cache"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/config"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/event"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/storage"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/handler"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/router"
	"github.com/nsgarcia11/bathroom-estimator/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_integration"

// TestServer is the full HTTP stack over a migrated PostgreSQL
type TestServer struct {
	DB            *TestDB
	Client        testutil.Client
	Subscriptions *billingapp.SubscriptionService
	Events        *testutil.RecordingEventHandler
}

// NewTestServer wires repositories, services and the router the way the
// server binary does, with object storage stubbed and Stripe API calls disabled
func NewTestServer(t *testing.T, freeProjectLimit int) *TestServer {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(log)
	recorder := testutil.NewRecordingEventHandler()
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	userRepo := persistence.NewGormUserRepository(tdb.DB)
	contractorRepo := persistence.NewGormContractorRepository(tdb.DB)
	projectRepo := persistence.NewGormProjectRepository(tdb.DB)
	screenRepo := persistence.NewGormWorkflowScreenRepository(tdb.DB)
	lineItemRepo := persistence.NewGormLineItemRepository(tdb.DB)
	photoRepo := persistence.NewGormPhotoRepository(tdb.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(tdb.DB)

	objects := storage.NewStubObjectStorage()
	prices, err := estimate.NewPriceCatalog(nil)
	require.NoError(t, err)
	engine := estimate.NewEngine(prices)
	defaultRate := decimal.NewFromInt(65)

	idempotency, err := cache.NewIdempotencyStoreFactory(nil).CreateStore(ctx)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-key-at-least-32-chars",
		RefreshSecret:          "integration-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "estimator-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	subscriptions := billingapp.NewSubscriptionService(billingapp.SubscriptionServiceConfig{
		Repo:   subscriptionRepo,
		Events: bus,
		Logger: log,
	})
	webhooks := billingapp.NewWebhookService(billingapp.WebhookServiceConfig{
		WebhookSecret: testWebhookSecret,
		Repo:          subscriptionRepo,
		Users:         userRepo,
		PlanForPrice:  func(string) string { return "pro" },
		Idempotency:   idempotency,
		DedupeTTL:     time.Hour,
		Events:        bus,
		Logger:        log,
	})

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, bus, identityapp.DefaultAuthServiceConfig(), log)
	contractorService := contractorapp.NewContractorService(contractorRepo, objects, bus, contractorapp.ServiceConfig{
		DefaultHourlyRate: defaultRate,
		PresignTTL:        time.Minute,
	}, log)
	projectService := projectapp.NewProjectService(projectapp.ProjectServiceConfig{
		Projects:         projectRepo,
		Screens:          screenRepo,
		LineItems:        lineItemRepo,
		Photos:           photoRepo,
		Storage:          objects,
		Subscriptions:    subscriptions,
		Events:           bus,
		FreeProjectLimit: freeProjectLimit,
		Logger:           log,
	})
	workflowService := projectapp.NewWorkflowService(projectapp.WorkflowServiceConfig{
		Projects:          projectRepo,
		Screens:           screenRepo,
		LineItems:         lineItemRepo,
		Contractors:       contractorRepo,
		Engine:            engine,
		DefaultHourlyRate: defaultRate,
		Events:            bus,
		Logger:            log,
	})
	lineItemService := projectapp.NewLineItemService(projectapp.LineItemServiceConfig{
		Projects:          projectRepo,
		Screens:           screenRepo,
		LineItems:         lineItemRepo,
		Contractors:       contractorRepo,
		Engine:            engine,
		DefaultHourlyRate: defaultRate,
		Events:            bus,
		Logger:            log,
	})
	estimateService := projectapp.NewEstimateService(projectapp.EstimateServiceConfig{
		Projects:    projectRepo,
		LineItems:   lineItemRepo,
		Contractors: contractorRepo,
		Storage:     objects,
		PresignTTL:  time.Minute,
		Logger:      log,
	})
	photoService := projectapp.NewPhotoService(projectRepo, photoRepo, objects, time.Minute, log)

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	middleware.SetupValidator()
	engineHTTP := router.New(router.Config{
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20},
		ServiceName: "estimator-test",
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Logger: log,
		Done:   done,
	}, router.Handlers{
		System:       handler.NewSystemHandler("test", map[string]handler.HealthCheck{"database": func(ctx context.Context) error { return tdb.SqlDB.PingContext(ctx) }}),
		Auth:         handler.NewAuthHandler(authService),
		Contractor:   handler.NewContractorHandler(contractorService),
		Project:      handler.NewProjectHandler(projectService),
		Workflow:     handler.NewWorkflowHandler(workflowService),
		LineItem:     handler.NewLineItemHandler(lineItemService),
		Estimate:     handler.NewEstimateHandler(estimateService),
		Photo:        handler.NewPhotoHandler(photoService),
		Subscription: handler.NewSubscriptionHandler(subscriptions),
		Webhook:      handler.NewStripeWebhookHandler(webhooks),
	})

	return &TestServer{
		DB:            tdb,
		Client:        testutil.Client{Handler: engineHTTP},
		Subscriptions: subscriptions,
		Events:        recorder,
	}
}

type authData struct {
	Token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"token"`
	User struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	} `json:"user"`
}

// Register creates an account and returns a client authenticated as it
func (ts *TestServer) Register(t *testing.T, email string) (testutil.Client, authData) {
	t.Helper()

	w := ts.Client.Do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "correct-horse-battery",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	data := testutil.Decode[authData](t, w).Data
	return ts.Client.WithToken(data.Token.AccessToken), data
}

// SendWebhook signs payload with the test secret and posts it
func (ts *TestServer) SendWebhook(t *testing.T, eventID, eventType string, object map[string]any) int {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":          eventID,
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	client := ts.Client
	client.Header = http.Header{"Stripe-Signature": []string{signed.Header}}
	return client.Do(t, http.MethodPost, "/api/v1/webhooks/stripe", signed.Payload).Code
}
