package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/application/export"
	"github.com/nizy/tailor/internal/application/identity"
	"github.com/nizy/tailor/internal/application/notify"
	"github.com/nizy/tailor/internal/application/partner"
	"github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/infrastructure/auth"
	"github.com/nizy/tailor/internal/infrastructure/config"
	"github.com/nizy/tailor/internal/infrastructure/event"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/infrastructure/migration"
	"github.com/nizy/tailor/internal/infrastructure/persistence"
	infra "github.com/nizy/tailor/internal/infrastructure/printing"
	"github.com/nizy/tailor/internal/infrastructure/spreadsheet"
	"github.com/nizy/tailor/internal/infrastructure/telemetry"
	"github.com/nizy/tailor/internal/interfaces/http/handler"
	"github.com/nizy/tailor/internal/interfaces/http/middleware"
	"github.com/nizy/tailor/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if tel.Logs.IsEnabled() {
		// rebuild so every entry is also shipped to the collector
		log, err = logger.New(logCfg, tel.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting tailor shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormConfig{
		Level:         logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Database.SlowQueryThreshold,
		LogParams:     cfg.Database.LogQueryParams,
	})
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := tel.DBTracing(cfg, log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := migrateUp(db.SQL, cfg.Database.Driver, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis is optional; without it revocations and change events stay local
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = newRedisClient(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories and services
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)
	customerService := partner.NewCustomerService(customerRepo, log)
	customerService.SetEventPublisher(eventBus)
	orderService := trade.NewOrderService(orderRepo, customerRepo, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetSaveRecorder(tel.Shop)
	dashboardService := trade.NewDashboardService(orderRepo, customerRepo)

	watcher := notify.NewCollectionWatcher(customerService, orderService, log)
	eventBus.Subscribe(watcher)

	var relay *event.RedisChangeRelay
	if cfg.Event.RelayEnabled && redisClient != nil {
		relay = event.NewRedisChangeRelay(redisClient, eventBus,
			event.WithRelayChannel(cfg.Event.RelayChannel),
			event.WithRelayLogger(log),
		)
		eventBus.Subscribe(relay)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	authService := identity.NewAuthService(
		auth.NewAdminAuthenticator(cfg.Admin),
		auth.NewSessionService(cfg.JWT),
		newRevocationList(redisClient),
		log,
	)

	// Exports
	templates, err := infra.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load print templates", zap.Error(err))
	}
	renderer := newRenderer(cfg, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warn("Error closing PDF renderer", zap.Error(err))
		}
	}()
	exportService := export.NewService(templates, renderer, spreadsheet.NewXLSXWriter(), export.Options{
		Letterhead: printing.Letterhead{
			CompanyName: cfg.Company.Name,
			Tagline:     cfg.Company.Tagline,
			Phone:       cfg.Company.Phone,
		},
		ShopTag:       cfg.Company.FileTag,
		PaperSize:     printing.PaperSize(cfg.Export.PaperSize),
		RenderTimeout: cfg.Export.Timeout,
	}, log)
	exportService.SetRecorder(tel.Shop)

	archive, err := newArchive(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize document archive", zap.Error(err))
	}
	if archive.store != nil {
		exportService.SetArchive(archive.store)
	}
	if archive.sweeper != nil {
		if err := archive.sweeper.Start(ctx); err != nil {
			log.Fatal("Failed to start archive sweeper", zap.Error(err))
		}
	}

	// HTTP
	var loginLimiter *middleware.RateLimiter
	if cfg.HTTP.LoginRateLimitRequests > 0 {
		loginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
		defer loginLimiter.Stop()
	}

	submissions, closeSubmissions := newSubmissionStore(redisClient)
	defer closeSubmissions()

	eventsHandler := handler.NewEventsHandler(watcher, handler.WithEventsLogger(log))

	engine := router.New(router.Options{
		Authenticator:    authService,
		Logger:           log,
		Secure:           secureConfig(cfg),
		CORS:             corsConfig(cfg),
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		MaxBodySize:      cfg.HTTP.MaxBodySize,
		LoginLimiter:     loginLimiter,
		Submissions:      submissions,
		SubmissionTTL:    cfg.HTTP.IdempotencyTTL,
		ServiceName:      cfg.Telemetry.ServiceName,
		TracingEnabled:   cfg.Telemetry.Enabled,
		ProfilingEnabled: cfg.Profiling.Enabled,
		Meter:            tel.Meter.Meter(telemetry.TracerName),
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customers: handler.NewCustomerHandler(customerService),
		Orders:    handler.NewOrderHandler(orderService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Exports:   handler.NewExportHandler(exportService, customerService, orderService),
		Events:    eventsHandler,
		Health:    handler.NewHealthHandler(db, version),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	// event streams outlive the write timeout
	srv.RegisterOnShutdown(eventsHandler.Stop)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		errs = append(errs, srv.Shutdown(shutdownCtx))
		if archive.sweeper != nil {
			errs = append(errs, archive.sweeper.Stop(shutdownCtx))
		}
		errs = append(errs, eventBus.Stop(shutdownCtx))
		errs = append(errs, tel.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

func migrateUp(sqlDB *sql.DB, driver string, log *zap.Logger) error {
	m, err := migration.New(sqlDB, driver, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func secureConfig(cfg *config.Config) middleware.SecureConfig {
	if !cfg.IsProduction() {
		return middleware.SecureConfig{IsDevelopment: true}
	}
	return middleware.SecureConfig{STSSeconds: int64((365 * 24 * time.Hour).Seconds())}
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return cors
}
