package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/internal/cart"
	"github.com/adiwijaya/larisin-backend/internal/coupons"
	"github.com/adiwijaya/larisin-backend/internal/orders"
	"github.com/adiwijaya/larisin-backend/internal/pricing"
	"github.com/adiwijaya/larisin-backend/pkg/config"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/enums"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

type testEnv struct {
	db       *gorm.DB
	checkout Service
	carts    cart.Service
	coupons  coupons.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupCheckoutTestDB(t)

	cartRepo := cart.NewRepository(db)
	cartSvc, err := cart.NewService(cartRepo, gormProductLoader{db: db})
	require.NoError(t, err)

	couponSvc, err := coupons.NewService(coupons.NewRepository(db), config.CouponConfig{CodeLength: 8, CodeMaxAttempts: 5})
	require.NoError(t, err)

	calc, err := pricing.NewCalculator(pricing.DefaultShippingFees(), 2000)
	require.NoError(t, err)

	svc, err := NewService(gormTxRunner{db: db}, cartSvc, cartRepo, couponSvc, orders.NewRepository(db), calc)
	require.NoError(t, err)

	return &testEnv{db: db, checkout: svc, carts: cartSvc, coupons: couponSvc}
}

func mustCreateCoupon(t *testing.T, db *gorm.DB, percent int, maxUsage *int) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		ID:              uuid.New(),
		Code:            coupons.NormalizeCode("C" + uuid.NewString()[:7]),
		DiscountPercent: percent,
		IsActive:        true,
		MaxUsage:        maxUsage,
		CreatedBy:       uuid.New(),
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func placeOrderInput(couponCode string) PlaceOrderInput {
	return PlaceOrderInput{
		CouponCode:      couponCode,
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodBankTransfer,
		ShippingDetails: testShippingDetails(),
	}
}

func TestPlaceOrderFullBreakdown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	sale := mustCreateSaleProduct(t, env.db, 250000, 20)
	plain := mustCreatePlainProduct(t, env.db, 50000)
	coupon := mustCreateCoupon(t, env.db, 10, nil)

	_, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: sale.ID, Qty: 1})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: plain.ID, Qty: 2})
	require.NoError(t, err)

	dto, err := env.checkout.PlaceOrder(ctx, user, placeOrderInput(coupon.Code))
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, int64(350000), dto.Breakdown.GrossSubtotal)
	assert.Equal(t, int64(50000), dto.Breakdown.ItemSavings)
	assert.Equal(t, int64(300000), dto.Breakdown.NetBeforeCoupon)
	assert.Equal(t, int64(30000), dto.Breakdown.CouponDiscount)
	assert.Equal(t, int64(25000), dto.Breakdown.ShippingCost)
	assert.Equal(t, int64(2000), dto.Breakdown.Tax)
	assert.Equal(t, int64(297000), dto.Breakdown.Total)
	require.Len(t, dto.Items, 2)
	require.NotNil(t, dto.CouponCode)
	assert.Equal(t, coupon.Code, *dto.CouponCode)

	// Cart converted, next touch starts a fresh one.
	fresh, err := env.carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)

	// Ledger recorded exactly one redemption.
	var reloaded models.Coupon
	require.NoError(t, env.db.First(&reloaded, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)
}

// cappedLedger delegates reads to the real ledger but fails the commit,
// standing in for a shopper who loses the guarded increment to a
// concurrent checkout between validation and commit.
type cappedLedger struct {
	coupons.Service
}

func (l cappedLedger) CommitUsage(ctx context.Context, tx *gorm.DB, couponID, userID, orderID uuid.UUID) error {
	return coupons.Reject(coupons.ReasonUsageLimitReached)
}

func TestPlaceOrderRollsBackWhenCommitLosesRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cartRepo := cart.NewRepository(env.db)
	calc, err := pricing.NewCalculator(pricing.DefaultShippingFees(), 2000)
	require.NoError(t, err)
	svc, err := NewService(gormTxRunner{db: env.db}, env.carts, cartRepo, cappedLedger{Service: env.coupons}, orders.NewRepository(env.db), calc)
	require.NoError(t, err)

	one := 1
	coupon := mustCreateCoupon(t, env.db, 10, &one)

	user := uuid.New()
	product := mustCreatePlainProduct(t, env.db, 100000)
	_, err = env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, user, placeOrderInput(coupon.Code))
	require.Error(t, err)
	reason, ok := coupons.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, coupons.ReasonUsageLimitReached, reason)

	// No order row survived the rollback.
	var orderCount int64
	require.NoError(t, env.db.Model(&models.Order{}).Where("user_id = ?", user).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	// The cart is still active and intact.
	dto, err := env.carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Len(t, dto.Items, 1)
}

func TestPlaceOrderRejectsEmptySelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreatePlainProduct(t, env.db, 100000)
	dto, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	_, err = env.carts.SetItemSelected(ctx, user, dto.Items[0].ID, false)
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(ctx, user, placeOrderInput(""))
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestPlaceOrderRejectsInvalidCoupon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreatePlainProduct(t, env.db, 100000)
	_, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	_, err = env.checkout.PlaceOrder(ctx, user, placeOrderInput("NOSUCHCODE"))
	require.Error(t, err)
	reason, ok := coupons.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, coupons.ReasonNotFound, reason)
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	input := placeOrderInput("")
	input.ShippingMethod = enums.ShippingMethod("teleport")
	_, err := env.checkout.PlaceOrder(ctx, user, input)
	require.Error(t, err)

	input = placeOrderInput("")
	input.PaymentMethod = enums.PaymentMethod("barter")
	_, err = env.checkout.PlaceOrder(ctx, user, input)
	require.Error(t, err)

	input = placeOrderInput("")
	input.ShippingDetails.RecipientName = ""
	_, err = env.checkout.PlaceOrder(ctx, user, input)
	require.Error(t, err)
}

func TestPlaceOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreatePlainProduct(t, env.db, 100000)
	_, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	placed, err := env.checkout.PlaceOrder(ctx, user, placeOrderInput(""))
	require.NoError(t, err)

	// Reprice and delete the product after placement.
	require.NoError(t, env.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("base_price", 500000).Error)
	require.NoError(t, env.db.Delete(&models.Product{}, "id = ?", product.ID).Error)

	ordersRepo := orders.NewRepository(env.db)
	reloaded, err := ordersRepo.FindByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), reloaded.LineItems[0].UnitPrice)
	assert.Equal(t, placed.Breakdown.Total, reloaded.Total)
}

func TestQuotePreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateSaleProduct(t, env.db, 200000, 25)
	_, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	breakdown, err := env.checkout.Quote(ctx, user, QuoteInput{ShippingMethod: enums.ShippingMethodExpress})
	require.NoError(t, err)

	assert.Equal(t, int64(200000), breakdown.GrossSubtotal)
	assert.Equal(t, int64(50000), breakdown.ItemSavings)
	assert.Equal(t, int64(150000), breakdown.NetBeforeCoupon)
	assert.Equal(t, int64(50000), breakdown.ShippingCost)
	assert.Equal(t, int64(150000+50000+2000), breakdown.Total)

	// Quoting mutates nothing.
	dto, err := env.carts.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Len(t, dto.Items, 1)

	var orderCount int64
	require.NoError(t, env.db.Model(&models.Order{}).Where("user_id = ?", user).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}

func TestPlaceOrderSameCouponTwiceBySameUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	coupon := mustCreateCoupon(t, env.db, 10, nil)
	product := mustCreatePlainProduct(t, env.db, 100000)

	_, err := env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	_, err = env.checkout.PlaceOrder(ctx, user, placeOrderInput(coupon.Code))
	require.NoError(t, err)

	_, err = env.carts.AddItem(ctx, user, cart.AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	_, err = env.checkout.PlaceOrder(ctx, user, placeOrderInput(coupon.Code))
	require.Error(t, err)
	reason, ok := coupons.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, coupons.ReasonAlreadyUsed, reason)
}
