package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	skipInShortMode(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := cache.NewRedisClient(ctx, config.RedisConfig{Enabled: true, Host: host, Port: port.Int()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisTokenBlacklist(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	bl := auth.NewRedisTokenBlacklist(client)

	revoked, err := bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Minute))
	revoked, err = bl.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The entry lives only as long as the token would have.
	require.NoError(t, bl.AddToBlacklist(ctx, "jti-2", time.Second))
	assert.Eventually(t, func() bool {
		revoked, err := bl.IsBlacklisted(ctx, "jti-2")
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}

func TestProductCache_InvalidatedByReviews(t *testing.T) {
	client := newRedisClient(t)
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	reviewRepo := persistence.NewGormReviewRepository(tdb.DB)
	productCache := cache.NewRedisProductCache(client, time.Minute)

	products := catalogapp.NewProductService(productRepo, reviewRepo, nil)
	products.SetCache(productCache)
	reviews := reviewapp.NewReviewService(reviewRepo, productRepo, nil)
	bus := event.NewAsyncEventBus(zap.NewNop(), 5*time.Second)
	invalidation := catalogapp.NewProductCacheInvalidationHandler(productCache, nil)
	bus.Subscribe(invalidation, invalidation.EventTypes()...)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	reviews.SetEventPublisher(bus)

	user := tdb.SeedUser("critic@example.com")
	lp := tdb.SeedProduct("Out to Lunch", "22.00", 3)

	listed, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Zero(t, listed[0].ReviewCount)

	_, ok, err := productCache.GetList(ctx)
	require.NoError(t, err)
	require.True(t, ok, "listing is cached after the first read")

	_, err = reviews.Create(ctx, user.ID, reviewapp.CreateReviewRequest{ProductID: lp.ID, Rating: 4, Comment: "Angular and warm"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok, err := productCache.GetList(ctx)
		return err == nil && !ok
	}, 5*time.Second, 50*time.Millisecond, "posting a review drops the cached listing")

	listed, err = products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listed[0].ReviewCount)
	assert.Equal(t, "4.0", listed[0].AverageRating.StringFixed(1))
}
