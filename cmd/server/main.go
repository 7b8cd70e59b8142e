package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/nsgarcia11/bathroom-estimator/internal/application/billing"
	contractorapp "github.com/nsgarcia11/bathroom-estimator/internal/application/contractor"
	eventapp "github.com/nsgarcia11/bathroom-estimator/internal/application/event"
	identityapp "github.com/nsgarcia11/bathroom-estimator/internal/application/identity"
	projectapp "github.com/nsgarcia11/bathroom-estimator/internal/application/project"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/estimate"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/auth"
	stripebilling "github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/billing"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/cache"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/config"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/event"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/logger"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/persistence"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/printing"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/scheduler"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/storage"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/telemetry"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/handler"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.Logger
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			baseLog.Error("Error shutting down telemetry", zap.Error(err))
		}
		_ = log.Sync()
	}()

	log.Info("Starting bathroom estimator",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, providers.Meter, telemetry.DBMetricsConfig{
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Database metrics disabled", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}
	log.Info("Database connected")

	// Redis backs the token blacklist and webhook deduplication when configured
	var redisClient *redis.Client
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
			blacklist = auth.NewRedisTokenBlacklist(redisClient)
		}
	}

	idempotency, err := cache.NewIdempotencyStoreFactory(redisClient,
		cache.WithLogger(log),
		cache.WithKeyPrefix("estimator:webhook:"),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotency.Close() }()

	// Object storage
	var objects projectapp.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignTTL))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3Store
	} else {
		log.Warn("Object storage not configured, photo and logo URLs are placeholders")
		objects = storage.NewStubObjectStorage()
	}

	// Metrics and events
	metrics, err := telemetry.NewEstimatorMetrics(providers.Meter.Meter("estimator"))
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(eventapp.NewActivityHandler(log))
	eventBus.Subscribe(eventapp.NewMetricsHandler(metrics))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	contractorRepo := persistence.NewGormContractorRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	screenRepo := persistence.NewGormWorkflowScreenRepository(db.DB)
	lineItemRepo := persistence.NewGormLineItemRepository(db.DB)
	photoRepo := persistence.NewGormPhotoRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)

	// Estimate engine
	prices, err := estimate.NewPriceCatalog(cfg.Estimate.Prices)
	if err != nil {
		log.Fatal("Invalid material price overrides", zap.Error(err))
	}
	engine := estimate.NewEngine(prices)
	defaultRate, err := decimal.NewFromString(cfg.Estimate.DefaultHourlyRate)
	if err != nil {
		log.Fatal("Invalid default hourly rate", zap.String("value", cfg.Estimate.DefaultHourlyRate), zap.Error(err))
	}

	// Billing
	var gateway billingapp.PaymentGateway
	var planForPrice func(string) string
	if cfg.Stripe.SecretKey != "" {
		adapter, err := stripebilling.NewStripeAdapter(&cfg.Stripe, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe", zap.Error(err))
		}
		gateway = adapter
		planForPrice = adapter.PlanForPrice
	} else {
		log.Warn("Stripe not configured, checkout and portal are disabled")
	}
	subscriptionService := billingapp.NewSubscriptionService(billingapp.SubscriptionServiceConfig{
		Repo:     subscriptionRepo,
		Gateway:  gateway,
		Events:   eventBus,
		Recorder: metrics,
		Logger:   log,
	})
	webhookService := billingapp.NewWebhookService(billingapp.WebhookServiceConfig{
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Repo:          subscriptionRepo,
		Users:         userRepo,
		PlanForPrice:  planForPrice,
		Idempotency:   idempotency,
		DedupeTTL:     cfg.Billing.WebhookDedupeTTL,
		Events:        eventBus,
		Recorder:      metrics,
		Logger:        log,
	})

	// PDF export
	var exporter projectapp.EstimateExporter
	if cfg.Printing.Enabled {
		pdf, err := printing.NewEstimateExporterFromConfig(cfg.Printing, log)
		if err != nil {
			log.Fatal("Failed to initialize PDF export", zap.Error(err))
		}
		exporter = pdf
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, eventBus,
		identityapp.AuthServiceConfigFrom(cfg.Auth), log)
	contractorService := contractorapp.NewContractorService(contractorRepo, objects, eventBus, contractorapp.ServiceConfig{
		DefaultHourlyRate: defaultRate,
		PresignTTL:        cfg.Storage.PresignTTL,
	}, log)
	projectService := projectapp.NewProjectService(projectapp.ProjectServiceConfig{
		Projects:         projectRepo,
		Screens:          screenRepo,
		LineItems:        lineItemRepo,
		Photos:           photoRepo,
		Storage:          objects,
		Subscriptions:    subscriptionService,
		Events:           eventBus,
		FreeProjectLimit: cfg.Billing.FreeProjectLimit,
		Logger:           log,
	})
	workflowService := projectapp.NewWorkflowService(projectapp.WorkflowServiceConfig{
		Projects:          projectRepo,
		Screens:           screenRepo,
		LineItems:         lineItemRepo,
		Contractors:       contractorRepo,
		Engine:            engine,
		DefaultHourlyRate: defaultRate,
		Events:            eventBus,
		Logger:            log,
	})
	lineItemService := projectapp.NewLineItemService(projectapp.LineItemServiceConfig{
		Projects:          projectRepo,
		Screens:           screenRepo,
		LineItems:         lineItemRepo,
		Contractors:       contractorRepo,
		Engine:            engine,
		DefaultHourlyRate: defaultRate,
		Events:            eventBus,
		Logger:            log,
	})
	estimateService := projectapp.NewEstimateService(projectapp.EstimateServiceConfig{
		Projects:    projectRepo,
		LineItems:   lineItemRepo,
		Contractors: contractorRepo,
		Storage:     objects,
		Exporter:    exporter,
		Recorder:    metrics,
		PresignTTL:  cfg.Storage.PresignTTL,
		Logger:      log,
	})
	photoService := projectapp.NewPhotoService(projectRepo, photoRepo, objects, cfg.Storage.PresignTTL, log)

	// Background jobs
	jobs := scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout}, log)
	if cfg.Scheduler.Enabled {
		sweep := scheduler.NewSubscriptionSweepJob(subscriptionService, cfg.Scheduler.SubscriptionGracePeriod, log)
		if err := jobs.Register(cfg.Scheduler.SubscriptionSweepCron, sweep); err != nil {
			log.Fatal("Failed to register subscription sweep", zap.Error(err))
		}
		jobs.Start()
	}

	// HTTP
	healthChecks := map[string]handler.HealthCheck{"database": db.HealthCheck}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	middleware.SetupValidator()
	engineHTTP := router.New(router.Config{
		HTTP:           cfg.HTTP,
		Production:     cfg.App.IsProduction(),
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Meter:          providers.Meter.Meter("http.server"),
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Logger: log,
		Done:   ctx.Done(),
	}, router.Handlers{
		System:       handler.NewSystemHandler(version, healthChecks),
		Auth:         handler.NewAuthHandler(authService),
		Contractor:   handler.NewContractorHandler(contractorService),
		Project:      handler.NewProjectHandler(projectService),
		Workflow:     handler.NewWorkflowHandler(workflowService),
		LineItem:     handler.NewLineItemHandler(lineItemService),
		Estimate:     handler.NewEstimateHandler(estimateService),
		Photo:        handler.NewPhotoHandler(photoService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Webhook:      handler.NewStripeWebhookHandler(webhookService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Background jobs did not stop in time", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
