package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

func newTestService(t *testing.T) (*service, *Repository) {
	t.Helper()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc.(*service), repo
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code())
}

func TestStartSaleArmsWindow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, repo.db, 250000)
	endsAt := time.Now().Add(2 * time.Hour)

	dto, err := svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 20, EndsAt: endsAt})
	require.NoError(t, err)

	assert.True(t, dto.OnSale)
	assert.Equal(t, int64(250000), dto.BasePrice)
	assert.Equal(t, int64(200000), dto.EffectivePrice)
	require.NotNil(t, dto.SaleDiscountPercent)
	assert.Equal(t, 20, *dto.SaleDiscountPercent)
}

func TestStartSaleRejectsLiveWindow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := mustCreateSaleProduct(t, repo.db, 100000, 10, time.Now().Add(time.Hour))

	_, err := svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 30, EndsAt: time.Now().Add(3 * time.Hour)})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestStartSaleAllowsLapsedWindow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// An expired window still has its columns set; a new sale may land
	// without an explicit stop in between.
	product := mustCreateSaleProduct(t, repo.db, 100000, 10, time.Now().Add(-time.Hour))

	dto, err := svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 25, EndsAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(75000), dto.EffectivePrice)
}

func TestStartSaleValidation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	product := mustCreateProduct(t, repo.db, 100000)

	_, err := svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 0, EndsAt: time.Now().Add(time.Hour)})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 101, EndsAt: time.Now().Add(time.Hour)})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.StartSale(ctx, product.ID, StartSaleInput{DiscountPercent: 10, EndsAt: time.Now().Add(-time.Minute)})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestExpiredSaleReadsAtBasePrice(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := mustCreateSaleProduct(t, repo.db, 100000, 40, time.Now().Add(-time.Minute))

	dto, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)

	// Columns lapse lazily; reads gate on the clock, not on cleanup.
	assert.False(t, dto.OnSale)
	assert.Equal(t, int64(100000), dto.EffectivePrice)
	assert.Nil(t, dto.SaleDiscountPercent)
}

func TestStopSaleClearsWindow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	product := mustCreateSaleProduct(t, repo.db, 100000, 40, time.Now().Add(time.Hour))

	dto, err := svc.StopSale(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, dto.OnSale)
	assert.Equal(t, int64(100000), dto.EffectivePrice)

	// Stopping again is a no-op.
	dto, err = svc.StopSale(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, dto.OnSale)
}

func TestProductCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Title:     "Gula Aren 1kg",
		Category:  "pantry",
		BasePrice: 45000,
		IsActive:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(45000), created.EffectivePrice)

	newPrice := int64(50000)
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{BasePrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), updated.BasePrice)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	_, err = svc.GetProduct(ctx, created.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Title: "", BasePrice: 1000})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Title: "X", BasePrice: -1})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestListProductsOnSaleFilter(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	live := mustCreateSaleProduct(t, repo.db, 100000, 10, time.Now().Add(time.Hour))
	_ = mustCreateSaleProduct(t, repo.db, 100000, 10, time.Now().Add(-time.Hour))
	_ = mustCreateProduct(t, repo.db, 100000)

	result, err := svc.ListProducts(ctx, ListProductsInput{OnSaleOnly: true})
	require.NoError(t, err)

	ids := make(map[string]bool, len(result.Products))
	for _, p := range result.Products {
		ids[p.ID.String()] = true
		assert.True(t, p.OnSale)
	}
	assert.True(t, ids[live.ID.String()])
}
