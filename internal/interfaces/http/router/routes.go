package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/interfaces/http/handler"
	"github.com/nizy/tailor/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HealthPath is served outside the API prefix and without authentication
const HealthPath = "/health"

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Auth      *handler.AuthHandler
	Customers *handler.CustomerHandler
	Orders    *handler.OrderHandler
	Dashboard *handler.DashboardHandler
	Exports   *handler.ExportHandler
	Events    *handler.EventsHandler
	Health    *handler.HealthHandler
}

// Options configures the middleware chain
type Options struct {
	Authenticator middleware.Authenticator
	Logger        *zap.Logger

	Secure         middleware.SecureConfig
	CORS           middleware.CORSConfig
	TrustedProxies []string
	MaxBodySize    int64

	// LoginLimiter throttles login attempts per client IP; nil disables it
	LoginLimiter  *middleware.RateLimiter
	// Submissions guards record creation against repeated Idempotency-Key
	// submissions; nil disables it
	Submissions   middleware.SubmissionStore
	SubmissionTTL time.Duration

	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// New builds the engine: the global middleware chain, /health and the
// authenticated /api/v1 routes.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	// RequestID first so every later layer can log it; Recovery right after
	// the access log so panics are logged with the request.
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, HealthPath))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureHeaders(opts.Secure, log))
	engine.Use(middleware.CORS(opts.CORS))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: opts.ServiceName,
		Enabled:     opts.TracingEnabled,
		SkipPaths:   []string{HealthPath},
	})...)
	if opts.Meter != nil {
		engine.Use(middleware.HTTPMetrics(opts.Meter))
	}
	engine.Use(middleware.ProfilingLabels(opts.ProfilingEnabled))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}

	engine.GET(HealthPath, h.Health.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	prefix := r.Prefix()
	r.Use(middleware.JWTAuth(middleware.JWTConfig{
		Authenticator:    opts.Authenticator,
		SkipPaths:        []string{prefix + "/auth/login"},
		QueryTokenPrefix: prefix + "/events",
		Logger:           log,
	}))

	login := []gin.HandlerFunc{h.Auth.Login}
	if opts.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(opts.LoginLimiter)}, login...)
	}

	create := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if opts.Submissions == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.Idempotency(opts.Submissions, opts.SubmissionTTL, log), h}
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", login...)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/session", h.Auth.Session)

	customerRoutes := NewDomainGroup("customers", "/customers")
	customerRoutes.GET("", h.Customers.List)
	customerRoutes.POST("", create(h.Customers.Create)...)
	customerRoutes.GET("/options", h.Customers.Options)
	customerRoutes.GET("/:id", h.Customers.Get)
	customerRoutes.PUT("/:id", h.Customers.Update)
	customerRoutes.DELETE("/:id", h.Customers.Delete)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", h.Orders.List)
	orderRoutes.POST("", create(h.Orders.Create)...)
	orderRoutes.GET("/draft", h.Orders.Draft)
	orderRoutes.GET("/:id", h.Orders.Get)
	orderRoutes.PUT("/:id", h.Orders.Update)
	orderRoutes.DELETE("/:id", h.Orders.Delete)
	orderRoutes.GET("/:id/edit", h.Orders.Edit)
	orderRoutes.GET("/:id/invoice", h.Exports.Invoice)

	dashboardRoutes := NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("", h.Dashboard.Summary)

	exportRoutes := NewDomainGroup("exports", "/exports")
	exportRoutes.GET("/customers", h.Exports.Customers)
	exportRoutes.GET("/orders", h.Exports.Orders)

	eventRoutes := NewDomainGroup("events", "/events")
	eventRoutes.GET("/stream", h.Events.Stream)

	r.Register(authRoutes).
		Register(customerRoutes).
		Register(orderRoutes).
		Register(dashboardRoutes).
		Register(exportRoutes).
		Register(eventRoutes)
	r.Setup()

	return engine
}
