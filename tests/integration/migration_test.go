package integration

import (
	"testing"

	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tableExists(t *testing.T, tdb *TestDB, table string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, tdb.DB.Raw("SELECT to_regclass(?) IS NOT NULL", "public."+table).Scan(&exists).Error)
	return exists
}

func TestMigrations_DownAndUp(t *testing.T) {
	tdb := NewTestDB(t)

	m, err := migration.New(tdb.SqlDB, "", zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down(0))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	for _, table := range []string{"users", "products", "cart_items", "orders", "order_items", "reviews", "favorites"} {
		assert.False(t, tableExists(t, tdb, table), table)
	}

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "a second Up is a no-op")
	assert.True(t, tableExists(t, tdb, "orders"))
}

func TestMigrations_StockCannotGoNegative(t *testing.T) {
	tdb := NewSharedTestDB(t)
	product := tdb.SeedProduct("Head Hunters", "17.00", 1)

	err := tdb.DB.Exec("UPDATE products SET stock = stock - 2 WHERE id = ?", product.ID).Error
	assert.Error(t, err)
	assert.Equal(t, 1, tdb.StockOf(product.ID))
}
