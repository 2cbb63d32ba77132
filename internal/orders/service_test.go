package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/enums"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupOrdersTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code())
}

func TestAdvanceWalksFullLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	order := mustCreateOrder(t, db, uuid.New(), enums.OrderStatusPending)

	want := []string{"confirmed", "packing", "shipped", "delivered"}
	for _, status := range want {
		dto, err := svc.Advance(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, status, dto.Status)
	}

	_, err := svc.Advance(ctx, order.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAdvanceDetectsConcurrentStep(t *testing.T) {
	_, db := newTestService(t)
	ctx := context.Background()

	order := mustCreateOrder(t, db, uuid.New(), enums.OrderStatusPending)

	// Simulate a racing admin moving the order first.
	require.NoError(t, db.Model(order).Update("status", enums.OrderStatusConfirmed).Error)

	repo := NewRepository(db)
	affected, err := repo.AdvanceStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestAdvanceUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Advance(context.Background(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetForUserHidesForeignOrders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := mustCreateOrder(t, db, owner, enums.OrderStatusPending)

	dto, err := svc.GetForUser(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(297000), dto.Breakdown.Total)
	require.Len(t, dto.Items, 1)

	_, err = svc.GetForUser(ctx, uuid.New(), order.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetPaymentProof(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := mustCreateOrder(t, db, owner, enums.OrderStatusPending)

	dto, err := svc.SetPaymentProof(ctx, owner, order.ID, "transfer-receipt-123")
	require.NoError(t, err)
	require.NotNil(t, dto.PaymentProofRef)
	assert.Equal(t, "transfer-receipt-123", *dto.PaymentProofRef)

	_, err = svc.SetPaymentProof(ctx, owner, order.ID, "   ")
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.SetPaymentProof(ctx, uuid.New(), order.ID, "other")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetPaymentProofRejectedAfterPacking(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	order := mustCreateOrder(t, db, owner, enums.OrderStatusPacking)

	_, err := svc.SetPaymentProof(ctx, owner, order.ID, "too-late")
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListForUserFiltersAndPaginates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		mustCreateOrder(t, db, owner, enums.OrderStatusPending)
	}
	mustCreateOrder(t, db, uuid.New(), enums.OrderStatusPending)

	page, err := svc.ListForUser(ctx, owner, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	require.NotEmpty(t, page.NextCursor)
	for _, o := range page.Orders {
		assert.Equal(t, owner, o.UserID)
	}

	rest, err := svc.ListForUser(ctx, owner, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
}

func TestListAdminStatusFilter(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	shipped := mustCreateOrder(t, db, uuid.New(), enums.OrderStatusShipped)
	mustCreateOrder(t, db, uuid.New(), enums.OrderStatusPending)

	status := enums.OrderStatusShipped
	page, err := svc.ListAdmin(ctx, AdminListInput{Status: &status})
	require.NoError(t, err)

	found := false
	for _, o := range page.Orders {
		assert.Equal(t, "shipped", o.Status)
		if o.ID == shipped.ID {
			found = true
		}
	}
	assert.True(t, found)

	bad := enums.OrderStatus("refunded")
	_, err = svc.ListAdmin(ctx, AdminListInput{Status: &bad})
	assertCode(t, err, pkgerrors.CodeValidation)
}
