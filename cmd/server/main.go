package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "github.com/storefront/backend/docs"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	favoriteapp "github.com/storefront/backend/internal/application/favorite"
	identityapp "github.com/storefront/backend/internal/application/identity"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/messaging"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Record store backend: catalog, reviews, favorites, cart, checkout and order lifecycle.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	telCfg := telemetry.FromConfig(cfg.Telemetry)

	logExportCfg := telCfg
	logExportCfg.Enabled = telCfg.Enabled && cfg.Telemetry.LogsEnabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, logExportCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		log, err = logger.New(logCfg, logProvider.Core(telCfg.ServiceName, level))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer logger.Sync(log)
	zap.ReplaceGlobals(log)

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterCfg := telCfg
	meterCfg.Enabled = telCfg.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, meterCfg, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: telCfg.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	db, err := persistence.NewDatabase(ctx, &cfg.Database,
		logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowQueryThresh))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    telCfg.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist and the product list cache when enabled
	var redisClient *redis.Client
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected")
	} else {
		log.Warn("Redis disabled; revoked tokens are kept in memory and products are not cached")
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	favoriteRepo := persistence.NewGormFavoriteRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewAsyncEventBus(log, cfg.Event.HandlerTimeout)

	var mailer notificationapp.Mailer = notification.NewLoggingMailer(log)
	if cfg.SMTP.Enabled {
		smtpMailer, err := notification.NewSMTPMailer(cfg.SMTP, log)
		if err != nil {
			log.Fatal("Failed to configure SMTP", zap.Error(err))
		}
		mailer = smtpMailer
	}

	orderConfirmation := notificationapp.NewOrderConfirmationHandler(userRepo, mailer, log)
	eventBus.Subscribe(orderConfirmation, orderConfirmation.EventTypes()...)
	verificationMail := notificationapp.NewVerificationMailHandler(mailer, log)
	eventBus.Subscribe(verificationMail, verificationMail.EventTypes()...)

	var kafkaPublisher *messaging.KafkaOrderEventPublisher
	if cfg.Kafka.Enabled {
		writer, err := messaging.NewKafkaWriter(cfg.Kafka, log)
		if err != nil {
			log.Fatal("Failed to configure Kafka", zap.Error(err))
		}
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		kafkaPublisher = messaging.NewKafkaOrderEventPublisher(writer, serializer, log)
		eventBus.Subscribe(kafkaPublisher, kafkaPublisher.EventTypes()...)
		log.Info("Forwarding order events to Kafka", zap.String("topic", cfg.Kafka.Topic))
	}

	// Services
	policy := order.Policy{
		DeliveryWindow: cfg.Order.DeliveryWindow,
		ReturnWindow:   cfg.Order.ReturnWindow,
	}
	checkoutMetrics, err := telemetry.NewCheckoutMetrics(meterProvider.Meter(telemetry.InstrumentationName))
	if err != nil {
		log.Fatal("Failed to create checkout metrics", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist,
		identityapp.AuthServiceConfig{VerificationCodeTTL: cfg.Auth.VerificationCodeTTL}, log)
	authService.SetEventPublisher(eventBus)

	productService := catalogapp.NewProductService(productRepo, reviewRepo, log)
	if redisClient != nil {
		productCache := cache.NewRedisProductCache(redisClient, cfg.Cache.ProductTTL)
		productService.SetCache(productCache)
		invalidation := catalogapp.NewProductCacheInvalidationHandler(productCache, log)
		eventBus.Subscribe(invalidation, invalidation.EventTypes()...)
	}

	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, log)
	reviewService.SetEventPublisher(eventBus)
	favoriteService := favoriteapp.NewFavoriteService(favoriteRepo, productRepo)
	cartService := cartapp.NewCartService(txScope, cartRepo, productRepo, log)

	checkoutService := orderapp.NewCheckoutService(txScope, log)
	checkoutService.SetEventPublisher(eventBus)
	checkoutService.SetMetrics(checkoutMetrics)

	orderService := orderapp.NewOrderService(txScope, orderRepo, policy, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetMetrics(checkoutMetrics)

	reconciler := scheduler.NewOrderReconciler(orderService, log, scheduler.OrderReconcilerConfig{
		Enabled:   cfg.Scheduler.OrderReconcileEnabled,
		Interval:  cfg.Scheduler.OrderReconcileInterval,
		BatchSize: cfg.Scheduler.OrderReconcileBatchSize,
	})

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	healthChecks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		healthChecks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	engine, err := router.New(router.Options{
		HTTP:             cfg.HTTP,
		ServiceName:      telCfg.ServiceName,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		Meter:            meterProvider.Meter(telemetry.InstrumentationName),
		Logger:           log,
		Auth: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
	}, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Cart:     handler.NewCartHandler(cartService),
		Review:   handler.NewReviewHandler(reviewService),
		Order:    handler.NewOrderHandler(checkoutService, orderService),
		Health:   handler.NewHealthHandler(healthChecks),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if err := reconciler.Start(gctx); err != nil {
		log.Error("Failed to start order reconciler", zap.Error(err))
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		engine.Close()
		if stopErr := reconciler.Stop(shutdownCtx); stopErr != nil {
			log.Warn("Order reconciler did not stop cleanly", zap.Error(stopErr))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error", zap.Error(err))
	}

	shutdown(log, cfg.HTTP.ShutdownTimeout, shutdownSteps{
		{"event bus", eventBus.Stop},
		{"kafka", func(context.Context) error {
			if kafkaPublisher == nil {
				return nil
			}
			return kafkaPublisher.Close()
		}},
		{"redis", func(context.Context) error {
			if redisClient == nil {
				return nil
			}
			return redisClient.Close()
		}},
		{"database", func(context.Context) error { return db.Close() }},
		{"profiler", func(context.Context) error { return profiler.Stop() }},
		{"meter provider", meterProvider.Shutdown},
		{"tracer provider", tracerProvider.Shutdown},
		{"log provider", logProvider.Shutdown},
	})

	log.Info("Server exited gracefully")
}

type shutdownSteps []struct {
	name string
	fn   func(context.Context) error
}

// shutdown releases resources in order; the event bus drains before the
// connections its handlers use are closed.
func shutdown(log *zap.Logger, timeout time.Duration, steps shutdownSteps) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			log.Warn("Shutdown step failed", zap.String("step", step.name), zap.Error(err))
		}
	}
}
