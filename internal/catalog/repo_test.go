package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/craftline/storefront-backend/pkg/db/models"
	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	productsTable := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price NUMERIC NOT NULL,
  variants TEXT,
  cover_image_url TEXT,
  published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(productsTable).Error)
	require.NoError(t, conn.Exec(`DELETE FROM products`).Error)
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, slug string, published bool) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:     "Product " + slug,
		Slug:      slug,
		Price:     decimal.RequireFromString("19.99"),
		Published: published,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	ctx := context.Background()
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	seedProduct(t, conn, "mug", true)
	seedProduct(t, conn, "poster", true)
	seedProduct(t, conn, "draft", false)

	products, err := repo.ListPublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.True(t, p.Published)
	}
}

func TestFindBySlug(t *testing.T) {
	ctx := context.Background()
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	seeded := seedProduct(t, conn, "mug", true)
	seedProduct(t, conn, "hidden", false)

	found, err := repo.FindBySlug(ctx, "mug")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))

	_, err = repo.FindBySlug(ctx, "hidden")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = repo.FindBySlug(ctx, "missing")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(setupCatalogTestDB(t)))

	_, err := svc.GetBySlug(ctx, "  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.GetByID(ctx, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	products, err := svc.List(ctx, -5, -1)
	require.NoError(t, err)
	assert.Empty(t, products)
}
