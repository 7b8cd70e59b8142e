package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/config"
	"github.com/nsgarcia11/bathroom-estimator/internal/infrastructure/logger"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/handler"
	"github.com/nsgarcia11/bathroom-estimator/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the API handlers mounted by New
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Contractor   *handler.ContractorHandler
	Project      *handler.ProjectHandler
	Workflow     *handler.WorkflowHandler
	LineItem     *handler.LineItemHandler
	Estimate     *handler.EstimateHandler
	Photo        *handler.PhotoHandler
	Subscription *handler.SubscriptionHandler
	Webhook      *handler.StripeWebhookHandler
}

// Config holds what the middleware chain needs
type Config struct {
	HTTP           config.HTTPConfig
	Production     bool
	ServiceName    string
	TracingEnabled bool
	// Meter is optional; without it no HTTP metrics are recorded
	Meter  metric.Meter
	JWT    middleware.JWTMiddlewareConfig
	Logger *zap.Logger
	// Done stops the rate limiter cleanup loops
	Done <-chan struct{}
}

// New builds the engine with the full middleware chain and every API route
func New(cfg Config, h Handlers) *gin.Engine {
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			cfg.Logger.Warn("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Production

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID(), logger.Recovery(cfg.Logger))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	})...)
	engine.Use(
		middleware.HTTPMetrics(cfg.Meter),
		logger.GinMiddleware(cfg.Logger),
		middleware.Secure(security),
		middleware.CORS(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		if cfg.Done != nil {
			limiter.StartCleanup(cfg.HTTP.RateLimitWindow, cfg.Done)
		}
		engine.Use(middleware.RateLimit(limiter))
	}

	r := NewRouter(engine)
	r.Register(publicRoutes(cfg, h))
	r.Register(protectedRoutes(cfg, h))
	r.Setup()
	return engine
}

func publicRoutes(cfg Config, h Handlers) *DomainGroup {
	public := NewDomainGroup("public", "")
	public.GET("/health", h.System.Health)
	public.GET("/ping", h.System.Ping)

	authGroup := public.Group("auth", "/auth")
	if cfg.HTTP.RateLimitEnabled && cfg.HTTP.AuthRateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		if cfg.Done != nil {
			limiter.StartCleanup(cfg.HTTP.AuthRateLimitWindow, cfg.Done)
		}
		authGroup.Use(middleware.RateLimit(limiter))
	}
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.RefreshToken)

	public.Group("webhooks", "/webhooks").POST("/stripe", h.Webhook.Handle)
	return public
}

func protectedRoutes(cfg Config, h Handlers) *DomainGroup {
	protected := NewDomainGroup("protected", "")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWT), middleware.SpanUserAttributes())

	protected.Group("session", "/auth").
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		PUT("/password", h.Auth.ChangePassword)

	protected.Group("contractor", "/contractor").
		GET("", h.Contractor.Get).
		POST("", h.Contractor.Create).
		PUT("", h.Contractor.Upsert).
		PATCH("", h.Contractor.Update).
		POST("/logo", h.Contractor.RequestLogoUpload)

	projects := protected.Group("projects", "/projects").
		GET("", h.Project.List).
		POST("", h.Project.Create).
		GET("/:id", h.Project.Get).
		PUT("/:id", h.Project.Update).
		DELETE("/:id", h.Project.Delete).
		POST("/:id/status", h.Project.ChangeStatus).
		POST("/:id/duplicate", h.Project.Duplicate)

	projects.
		GET("/:id/screens", h.Workflow.ListScreens).
		GET("/:id/screens/:category", h.Workflow.GetScreen).
		PUT("/:id/screens/:category", h.Workflow.SaveScreen)

	projects.
		GET("/:id/line-items", h.LineItem.List).
		POST("/:id/line-items", h.LineItem.Create).
		PUT("/:id/line-items/:itemId", h.LineItem.Update).
		DELETE("/:id/line-items/:itemId", h.LineItem.Delete).
		POST("/:id/line-items/:itemId/reset", h.LineItem.Reset)

	projects.
		GET("/:id/estimate", h.Estimate.Get).
		GET("/:id/estimate/pdf", h.Estimate.ExportPDF)

	projects.
		GET("/:id/photos", h.Photo.List).
		POST("/:id/photos", h.Photo.RequestUpload).
		DELETE("/:id/photos/:photoId", h.Photo.Delete)

	protected.Group("billing", "/billing").
		GET("/subscription", h.Subscription.Get).
		POST("/checkout", h.Subscription.Checkout).
		POST("/portal", h.Subscription.Portal)

	return protected
}
