package coupons

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
)

func setupCouponsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	coupons := `
CREATE TABLE IF NOT EXISTS coupons (
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
);`
	couponCodeIdx := `CREATE UNIQUE INDEX IF NOT EXISTS ux_coupons_code ON coupons (code);`
	redemptions := `
CREATE TABLE IF NOT EXISTS coupon_redemptions (
  id TEXT PRIMARY KEY,
  coupon_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  created_at DATETIME
);`
	userIdx := `CREATE UNIQUE INDEX IF NOT EXISTS ux_coupon_redemptions_user ON coupon_redemptions (coupon_id, user_id);`
	orderIdx := `CREATE UNIQUE INDEX IF NOT EXISTS ux_coupon_redemptions_order ON coupon_redemptions (coupon_id, order_id);`

	require.NoError(t, db.Exec(coupons).Error)
	require.NoError(t, db.Exec(couponCodeIdx).Error)
	require.NoError(t, db.Exec(redemptions).Error)
	require.NoError(t, db.Exec(userIdx).Error)
	require.NoError(t, db.Exec(orderIdx).Error)
	return db
}

type couponOverride func(*models.Coupon)

func withActive(active bool) couponOverride {
	return func(c *models.Coupon) { c.IsActive = active }
}

func withExpiry(at time.Time) couponOverride {
	return func(c *models.Coupon) { c.ExpiresAt = &at }
}

func withMaxUsage(max int) couponOverride {
	return func(c *models.Coupon) { c.MaxUsage = &max }
}

func withUsageCount(count int) couponOverride {
	return func(c *models.Coupon) { c.UsageCount = count }
}

func mustCreateCoupon(t *testing.T, tx *gorm.DB, percent int, overrides ...couponOverride) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		ID:              uuid.New(),
		Code:            "C" + uuid.NewString()[:7],
		DiscountPercent: percent,
		IsActive:        true,
		CreatedBy:       uuid.New(),
	}
	coupon.Code = NormalizeCode(coupon.Code)
	for _, override := range overrides {
		override(coupon)
	}
	require.NoError(t, tx.Create(coupon).Error)
	return coupon
}
