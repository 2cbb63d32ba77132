package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCartTestDB(t)
	svc, err := NewService(NewRepository(db), gormProductLoader{db: db})
	require.NoError(t, err)
	return svc, db
}

func intPtr(v int) *int             { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestGetCartCreatesOnFirstTouch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	dto, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user, dto.UserID)
	assert.Empty(t, dto.Items)

	again, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, again.ID)
}

func TestAddItemSnapshotsSalePrice(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 250000, intPtr(20), timePtr(time.Now().Add(time.Hour)))

	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)

	item := dto.Items[0]
	assert.Equal(t, int64(200000), item.UnitPrice)
	require.NotNil(t, item.CompareAtPrice)
	assert.Equal(t, int64(250000), *item.CompareAtPrice)
	assert.True(t, item.Selected)
}

func TestAddItemLapsedSaleSnapshotsBasePrice(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 250000, intPtr(20), timePtr(time.Now().Add(-time.Minute)))

	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)

	assert.Equal(t, int64(250000), dto.Items[0].UnitPrice)
	assert.Nil(t, dto.Items[0].CompareAtPrice)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 50000, nil, nil)

	_, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 2})
	require.NoError(t, err)

	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 3})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Qty)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	product := mustCreateCartProduct(t, db, 50000, nil, nil)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)

	_, err := svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: product.ID, Qty: 1})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestAddItemValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	product := mustCreateCartProduct(t, db, 50000, nil, nil)

	_, err := svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: product.ID, Qty: 0})
	require.Error(t, err)

	_, err = svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: product.ID, Qty: 100})
	require.Error(t, err)

	_, err = svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: uuid.New(), Qty: 1})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateItemQtyAndSelection(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 50000, nil, nil)
	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)
	itemID := dto.Items[0].ID

	dto, err = svc.UpdateItemQty(ctx, user, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, dto.Items[0].Qty)
	assert.Equal(t, int64(200000), dto.Items[0].LineTotal)

	dto, err = svc.SetItemSelected(ctx, user, itemID, false)
	require.NoError(t, err)
	assert.False(t, dto.Items[0].Selected)
}

func TestRemoveItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 50000, nil, nil)
	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	dto, err = svc.RemoveItem(ctx, user, dto.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	// Items in another shopper's cart are out of reach.
	other := uuid.New()
	otherDTO, err := svc.AddItem(ctx, other, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, user, otherDTO.Items[0].ID)
	require.Error(t, err)
}

func TestSnapshotImmuneToLaterPriceChange(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	product := mustCreateCartProduct(t, db, 100000, nil, nil)
	dto, err := svc.AddItem(ctx, user, AddItemInput{ProductID: product.ID, Qty: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(product).Update("base_price", 175000).Error)

	reloaded, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, dto.Items[0].UnitPrice, reloaded.Items[0].UnitPrice)
	assert.Equal(t, int64(100000), reloaded.Items[0].UnitPrice)
}
