package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/favorite"
	"github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/application/review"
	domaincatalog "github.com/storefront/backend/internal/domain/catalog"
	domainidentity "github.com/storefront/backend/internal/domain/identity"
	domainorder "github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

type testStack struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	router *gin.Engine
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	cfg := persistence.NewGormConfig(gormlogger.Discard)
	cfg.PrepareStmt = false
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	scope := persistence.NewGormTransactionScope(db)
	productRepo := persistence.NewGormProductRepository(db)
	reviewRepo := persistence.NewGormReviewRepository(db)

	authHandler := NewAuthHandler(identity.NewAuthService(
		persistence.NewGormUserRepository(db), jwtService, blacklist,
		identity.DefaultAuthServiceConfig(), nil,
	))
	productHandler := NewProductHandler(catalog.NewProductService(productRepo, reviewRepo, nil))
	favoriteHandler := NewFavoriteHandler(favorite.NewFavoriteService(persistence.NewGormFavoriteRepository(db), productRepo))
	cartHandler := NewCartHandler(cart.NewCartService(scope, persistence.NewGormCartRepository(db), productRepo, nil))
	reviewHandler := NewReviewHandler(review.NewReviewService(reviewRepo, productRepo, nil))
	orderHandler := NewOrderHandler(
		order.NewCheckoutService(scope, nil),
		order.NewOrderService(scope, persistence.NewGormOrderRepository(db), domainorder.DefaultPolicy(), nil),
	)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/resend-verification", authHandler.ResendVerification)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	}))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/favorites", favoriteHandler.List)
	protected.POST("/favorites/:product_id", favoriteHandler.Add)
	protected.DELETE("/favorites/:product_id", favoriteHandler.Remove)
	protected.GET("/cart", cartHandler.Get)
	protected.PUT("/cart/:product_id", cartHandler.SetQuantity)
	protected.POST("/cart/:product_id", cartHandler.AddItem)
	protected.DELETE("/cart/:product_id", cartHandler.RemoveItem)
	protected.POST("/reviews", reviewHandler.Create)
	protected.DELETE("/reviews/:id", reviewHandler.Delete)
	protected.POST("/orders", orderHandler.PlaceOrder)
	protected.GET("/orders/my-orders", orderHandler.ListMine)
	protected.GET("/orders/:id", orderHandler.Get)
	protected.PUT("/orders/:id/cancel", orderHandler.Cancel)
	protected.PUT("/orders/:id/return", orderHandler.RequestReturn)

	return &testStack{db: db, jwt: jwtService, router: r}
}

func (s *testStack) seedProduct(t *testing.T, name, price string, stock int) *domaincatalog.Product {
	t.Helper()
	p, err := domaincatalog.NewProduct(name, "", decimal.RequireFromString(price), stock, "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(s.db).Save(context.Background(), p))
	return p
}

// seedUser stores a verified user and returns a bearer token for it
func (s *testStack) seedUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	u, err := domainidentity.NewUser("Test", "User", email, "Secret123", time.Now().UTC())
	require.NoError(t, err)
	u.EmailVerified = true
	require.NoError(t, persistence.NewGormUserRepository(s.db).Create(context.Background(), u))

	token, err := s.jwt.GenerateAccessToken(u.ID, u.Email)
	require.NoError(t, err)
	return u.ID, token.Token
}

func (s *testStack) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
		Fields  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func withStatus(t *testing.T, w *httptest.ResponseRecorder, status int) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	return w
}
