package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/enums"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
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
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
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
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
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

func mustCreateOrder(t *testing.T, tx *gorm.DB, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	productID := uuid.New()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          status,
		ShippingMethod:  enums.ShippingMethodStandard,
		ShippingDetails: testShippingDetails(),
		PaymentMethod:   enums.PaymentMethodBankTransfer,
		GrossSubtotal:   350000,
		ItemSavings:     50000,
		NetBeforeCoupon: 300000,
		CouponDiscount:  30000,
		ShippingCost:    25000,
		Tax:             2000,
		Total:           297000,
		LineItems: []models.OrderLineItem{
			{
				ID:        uuid.New(),
				ProductID: &productID,
				Title:     "Kopi Gayo 500g",
				UnitPrice: 200000,
				Qty:       1,
				LineTotal: 200000,
			},
		},
	}
	require.NoError(t, tx.Create(order).Error)
	return order
}
