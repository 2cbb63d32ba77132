package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  base_price INTEGER NOT NULL,
  sale_discount_percent INTEGER,
  sale_ends_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_title TEXT NOT NULL,
  unit_price INTEGER NOT NULL,
  compare_at_price INTEGER,
  qty INTEGER NOT NULL DEFAULT 1,
  attributes TEXT,
  selected INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  discount_percent INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  expires_at DATETIME,
  max_usage INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_coupons_code ON coupons (code);`,
		`CREATE TABLE IF NOT EXISTS coupon_redemptions (
  id TEXT PRIMARY KEY,
  coupon_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_coupon_redemptions_user ON coupon_redemptions (coupon_id, user_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_coupon_redemptions_order ON coupon_redemptions (coupon_id, order_id);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_method TEXT NOT NULL,
  shipping_details TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_proof_ref TEXT,
  coupon_id TEXT,
  coupon_code TEXT,
  gross_subtotal INTEGER NOT NULL,
  item_savings INTEGER NOT NULL,
  net_before_coupon INTEGER NOT NULL,
  coupon_discount INTEGER NOT NULL,
  shipping_cost INTEGER NOT NULL,
  tax INTEGER NOT NULL,
  total INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  title TEXT NOT NULL,
  unit_price INTEGER NOT NULL,
  compare_at_price INTEGER,
  qty INTEGER NOT NULL,
  attributes TEXT,
  line_total INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// gormTxRunner adapts a raw gorm DB to the transaction runner surface.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type gormProductLoader struct {
	db *gorm.DB
}

func (l gormProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func mustCreateSaleProduct(t *testing.T, tx *gorm.DB, basePrice int64, percent int) *models.Product {
	t.Helper()
	endsAt := time.Now().Add(time.Hour)
	product := &models.Product{
		ID:                  uuid.New(),
		Title:               "Kopi Gayo 500g",
		Category:            "coffee",
		BasePrice:           basePrice,
		SaleDiscountPercent: &percent,
		SaleEndsAt:          &endsAt,
		IsActive:            true,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func mustCreatePlainProduct(t *testing.T, tx *gorm.DB, basePrice int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Title:     "Gula Aren 1kg",
		Category:  "pantry",
		BasePrice: basePrice,
		IsActive:  true,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func testShippingDetails() types.ShippingDetails {
	return types.ShippingDetails{
		RecipientName: "Dewi Lestari",
		Phone:         "+62811223344",
		Line1:         "Jl. Merdeka No. 7",
		City:          "Bandung",
		Province:      "Jawa Barat",
		PostalCode:    "40111",
	}
}
