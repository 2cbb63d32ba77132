package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/config"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	db := setupCouponsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, config.CouponConfig{CodeLength: 8, CodeMaxAttempts: 5})
	require.NoError(t, err)
	return svc.(*service), db
}

func assertReason(t *testing.T, err error, want RejectReason) {
	t.Helper()
	require.Error(t, err)
	got, ok := ReasonOf(err)
	require.True(t, ok, "expected a reject reason on %v", err)
	assert.Equal(t, want, got)
}

func TestValidateHappyPath(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, 10)

	got, err := svc.Validate(ctx, "  "+coupon.Code+" ", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, coupon.Code, got.Code)
	assert.Equal(t, 10, got.DiscountPercent)
}

func TestValidateRejections(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	t.Run("empty code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "   ", user)
		assertReason(t, err, ReasonEmptyCode)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "NOSUCHCODE", user)
		assertReason(t, err, ReasonNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		coupon := mustCreateCoupon(t, db, 10, withActive(false))
		_, err := svc.Validate(ctx, coupon.Code, user)
		assertReason(t, err, ReasonInactive)
	})

	t.Run("expired", func(t *testing.T) {
		coupon := mustCreateCoupon(t, db, 10, withExpiry(time.Now().Add(-time.Minute)))
		_, err := svc.Validate(ctx, coupon.Code, user)
		assertReason(t, err, ReasonExpired)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		coupon := mustCreateCoupon(t, db, 10, withMaxUsage(3), withUsageCount(3))
		_, err := svc.Validate(ctx, coupon.Code, user)
		assertReason(t, err, ReasonUsageLimitReached)
	})

	t.Run("already used by user", func(t *testing.T) {
		coupon := mustCreateCoupon(t, db, 10)
		require.NoError(t, db.Create(&models.CouponRedemption{
			ID:       uuid.New(),
			CouponID: coupon.ID,
			UserID:   user,
			OrderID:  uuid.New(),
		}).Error)
		_, err := svc.Validate(ctx, coupon.Code, user)
		assertReason(t, err, ReasonAlreadyUsed)
	})
}

func TestValidateReasonOrderIsStable(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	// Inactive AND expired AND exhausted: the inactive check runs first.
	coupon := mustCreateCoupon(t, db, 10,
		withActive(false),
		withExpiry(time.Now().Add(-time.Hour)),
		withMaxUsage(1),
		withUsageCount(1),
	)

	_, err := svc.Validate(ctx, coupon.Code, uuid.New())
	assertReason(t, err, ReasonInactive)
}

func TestCommitUsageIsIdempotentPerOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, 10)
	user := uuid.New()
	order := uuid.New()

	require.NoError(t, svc.CommitUsage(ctx, db, coupon.ID, user, order))
	require.NoError(t, svc.CommitUsage(ctx, db, coupon.ID, user, order))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, "id = ?", coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)

	var redemptions int64
	require.NoError(t, db.Model(&models.CouponRedemption{}).Where("coupon_id = ?", coupon.ID).Count(&redemptions).Error)
	assert.Equal(t, int64(1), redemptions)
}

func TestCommitUsageRejectsSecondOrderForSameUser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, 10)
	user := uuid.New()

	require.NoError(t, svc.CommitUsage(ctx, db, coupon.ID, user, uuid.New()))

	err := svc.CommitUsage(ctx, db, coupon.ID, user, uuid.New())
	assertReason(t, err, ReasonAlreadyUsed)
}

func TestCommitUsageEnforcesUsageCap(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, 10, withMaxUsage(1))

	require.NoError(t, svc.CommitUsage(ctx, db, coupon.ID, uuid.New(), uuid.New()))

	err := svc.CommitUsage(ctx, db, coupon.ID, uuid.New(), uuid.New())
	assertReason(t, err, ReasonUsageLimitReached)
}

func TestCreateGeneratesCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateCouponInput{DiscountPercent: 15, CreatedBy: uuid.New()})
	require.NoError(t, err)
	assert.Len(t, dto.Code, 8)
	assert.True(t, dto.IsActive)
	assert.Equal(t, 15, dto.DiscountPercent)
}

func TestCreateExplicitCodeConflicts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	existing := mustCreateCoupon(t, db, 10)

	_, err := svc.Create(ctx, CreateCouponInput{Code: existing.Code, DiscountPercent: 20, CreatedBy: uuid.New()})
	require.Error(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCouponInput{DiscountPercent: 0, CreatedBy: uuid.New()})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateCouponInput{DiscountPercent: 101, CreatedBy: uuid.New()})
	require.Error(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Create(ctx, CreateCouponInput{DiscountPercent: 10, ExpiresAt: &past, CreatedBy: uuid.New()})
	require.Error(t, err)

	zero := 0
	_, err = svc.Create(ctx, CreateCouponInput{DiscountPercent: 10, MaxUsage: &zero, CreatedBy: uuid.New()})
	require.Error(t, err)
}

func TestSetActiveToggles(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coupon := mustCreateCoupon(t, db, 10)

	dto, err := svc.SetActive(ctx, coupon.ID, false)
	require.NoError(t, err)
	assert.False(t, dto.IsActive)

	_, err = svc.Validate(ctx, coupon.Code, uuid.New())
	assertReason(t, err, ReasonInactive)

	dto, err = svc.SetActive(ctx, coupon.ID, true)
	require.NoError(t, err)
	assert.True(t, dto.IsActive)
}

func TestListPaginates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustCreateCoupon(t, db, 10+i)
	}

	page, err := svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Coupons, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.NotEmpty(t, rest.Coupons)
}
