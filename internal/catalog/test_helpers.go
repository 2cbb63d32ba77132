package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  base_price INTEGER NOT NULL,
  sale_discount_percent INTEGER,
  sale_ends_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, basePrice int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Title:     "Kopi Gayo 500g",
		Category:  "coffee",
		BasePrice: basePrice,
		IsActive:  true,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func mustCreateSaleProduct(t *testing.T, tx *gorm.DB, basePrice int64, percent int, endsAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                  uuid.New(),
		Title:               "Teh Melati 250g",
		Category:            "tea",
		BasePrice:           basePrice,
		SaleDiscountPercent: &percent,
		SaleEndsAt:          &endsAt,
		IsActive:            true,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}
