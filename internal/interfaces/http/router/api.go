package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Favorite *handler.FavoriteHandler
	Cart     *handler.CartHandler
	Review   *handler.ReviewHandler
	Order    *handler.OrderHandler
	Health   *handler.HealthHandler
}

// Options configures the engine built by New
type Options struct {
	HTTP             config.HTTPConfig
	ServiceName      string
	TracingEnabled   bool
	ProfilingEnabled bool
	Meter            metric.Meter // nil disables HTTP metrics
	Logger           *zap.Logger
	Auth             middleware.JWTMiddlewareConfig
}

// Engine is the configured gin engine plus the background resources it owns
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup goroutines
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

// New builds the storefront API:
//
//	/health                          dependency check
//	/swagger/*any                    API docs, when enabled
//	/api/v1/auth/...                 registration and sign-in, stricter rate limit
//	/api/v1/products                 public catalog
//	/api/v1/{favorites,cart,reviews,orders}  bearer token required
func New(opts Options, h Handlers) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	engine.HandleMethodNotAllowed = true

	httpMetrics, err := middleware.HTTPMetrics(opts.Meter)
	if err != nil {
		return nil, err
	}

	e := &Engine{Engine: engine}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.ServiceName, opts.TracingEnabled),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		httpMetrics,
		middleware.CORS(opts.HTTP),
		middleware.Secure(),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
	)
	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(middleware.Profiling(opts.ProfilingEnabled))

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	if opts.HTTP.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWTAuth(opts.Auth)

	authRoutes := NewDomainGroup("auth", "/auth")
	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.AuthRateLimitRequests, opts.HTTP.AuthRateLimitWindow)
		e.limiters = append(e.limiters, limiter)
		authRoutes.Use(middleware.RateLimit(limiter))
	}
	authRoutes.
		POST("/register", h.Auth.Register).
		POST("/verify-email", h.Auth.VerifyEmail).
		POST("/resend-verification", h.Auth.ResendVerification).
		POST("/login", h.Auth.Login).
		GET("/me", authRequired, h.Auth.Me).
		POST("/logout", authRequired, h.Auth.Logout)

	productRoutes := NewDomainGroup("catalog", "/products").
		GET("", h.Product.List).
		GET("/:id", h.Product.Get)

	favoriteRoutes := NewDomainGroup("favorites", "/favorites").
		Use(authRequired).
		GET("", h.Favorite.List).
		POST("/:product_id", h.Favorite.Add).
		DELETE("/:product_id", h.Favorite.Remove)

	cartRoutes := NewDomainGroup("cart", "/cart").
		Use(authRequired).
		GET("", h.Cart.Get).
		PUT("/:product_id", h.Cart.SetQuantity).
		POST("/:product_id", h.Cart.AddItem).
		DELETE("/:product_id", h.Cart.RemoveItem)

	reviewRoutes := NewDomainGroup("reviews", "/reviews").
		Use(authRequired).
		POST("", h.Review.Create).
		DELETE("/:id", h.Review.Delete)

	orderRoutes := NewDomainGroup("orders", "/orders").
		Use(authRequired).
		POST("", h.Order.PlaceOrder).
		GET("/my-orders", h.Order.ListMine).
		GET("/:id", h.Order.Get).
		PUT("/:id/cancel", h.Order.Cancel).
		PUT("/:id/return", h.Order.RequestReturn)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(authRoutes, productRoutes, favoriteRoutes, cartRoutes, reviewRoutes, orderRoutes).
		Setup()

	log.Info("routes registered", zap.Int("count", len(engine.Routes())))
	return e, nil
}
