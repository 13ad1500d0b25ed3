package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCartRepository_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	p := seedProduct(t, db, "Blue Train", "10.00", 10)

	first, err := cart.NewItem(userID, p.ID, 3)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	second, err := cart.NewItem(userID, p.ID, 5)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))

	items, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1, "one row per (user, product)")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, first.ID, items[0].ID, "the original row is kept")
}

func TestGormCartRepository_FindByUser_Order(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now().UTC()

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		item, err := cart.NewItem(userID, ids[i], i+1)
		require.NoError(t, err)
		item.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Upsert(ctx, item))
	}
	other, err := cart.NewItem(uuid.New(), ids[0], 1)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, other))

	items, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, ids[i], item.ProductID)
	}
}

func TestGormCartRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCartRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	a, _ := cart.NewItem(userID, uuid.New(), 1)
	b, _ := cart.NewItem(userID, uuid.New(), 2)
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.Upsert(ctx, b))

	require.NoError(t, repo.Delete(ctx, userID, a.ProductID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, a.ProductID), shared.ErrNotFound)

	_, err := repo.FindByUserAndProduct(ctx, userID, a.ProductID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n, err := repo.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGormCartRepository_FindByUserForUpdate_LocksRows(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormCartRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE user_id = \$1 ORDER BY created_at, id FOR UPDATE$`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "quantity"}).
			AddRow(uuid.New(), userID, uuid.New(), 2))

	items, err := repo.FindByUserForUpdate(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
