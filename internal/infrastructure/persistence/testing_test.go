package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema.
// One connection keeps every session on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := NewGormConfig(gormlogger.Discard)
	cfg.PrepareStmt = false
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		BaseEntity: shared.NewBaseEntityAt(time.Now().UTC()),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedUser(t *testing.T, db *gorm.DB, firstName, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(firstName, "Tester", email, "Secret123", time.Now().UTC())
	require.NoError(t, err)
	u.EmailVerified = true
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	p, err := NewGormProductRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
