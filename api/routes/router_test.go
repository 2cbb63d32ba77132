package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/internal/cart"
	"github.com/adiwijaya/larisin-backend/internal/catalog"
	checkoutsvc "github.com/adiwijaya/larisin-backend/internal/checkout"
	"github.com/adiwijaya/larisin-backend/internal/coupons"
	"github.com/adiwijaya/larisin-backend/internal/orders"
	"github.com/adiwijaya/larisin-backend/internal/pricing"
	"github.com/adiwijaya/larisin-backend/pkg/config"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
	"github.com/adiwijaya/larisin-backend/pkg/redis"
	"gorm.io/gorm"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{}, nil
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) StartSale(ctx context.Context, id uuid.UUID, input catalog.StartSaleInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) StopSale(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

type stubCouponService struct{}

func (stubCouponService) Validate(ctx context.Context, code string, userID uuid.UUID) (*coupons.ValidatedCouponDTO, error) {
	return &coupons.ValidatedCouponDTO{Code: coupons.NormalizeCode(code)}, nil
}

func (stubCouponService) Resolve(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error) {
	panic("unimplemented")
}

func (stubCouponService) CommitUsage(ctx context.Context, tx *gorm.DB, couponID, userID, orderID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCouponService) Create(ctx context.Context, input coupons.CreateCouponInput) (*coupons.CouponDTO, error) {
	panic("unimplemented")
}

func (stubCouponService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*coupons.CouponDTO, error) {
	panic("unimplemented")
}

func (stubCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCouponService) List(ctx context.Context, params pagination.Params) (*coupons.CouponListResult, error) {
	return &coupons.CouponListResult{}, nil
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{UserID: userID}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, qty int) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) SetItemSelected(ctx context.Context, userID, itemID uuid.UUID, selected bool) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) ActiveCartModel(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, input checkoutsvc.PlaceOrderInput) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Quote(ctx context.Context, userID uuid.UUID, input checkoutsvc.QuoteInput) (*pricing.Breakdown, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderListResult, error) {
	return &orders.OrderListResult{}, nil
}

func (stubOrdersService) ListAdmin(ctx context.Context, input orders.AdminListInput) (*orders.OrderListResult, error) {
	return &orders.OrderListResult{}, nil
}

func (stubOrdersService) Advance(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) SetPaymentProof(ctx context.Context, userID, orderID uuid.UUID, ref string) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubCatalogService{},
		stubCouponService{},
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
	)
}

func TestProductBrowseIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public browse got %d", resp.Code)
	}
}

func TestShopperGroupRequiresIdentity(t *testing.T) {
	router := newTestRouter(testConfig())

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity got %d", resp.Code)
	}

	shopper := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	shopper.Header.Set("X-User-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, shopper)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with identity got %d", resp.Code)
	}
}

func TestShopperGroupRejectsMalformedIdentity(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("X-User-Id", "not-a-uuid")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed identity got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminIdentity(t *testing.T) {
	router := newTestRouter(testConfig())

	anon := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin identity got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/", nil)
	admin.Header.Set("X-Admin-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestShopperIdentityDoesNotGrantAdmin(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/coupons/", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for shopper on admin surface got %d", resp.Code)
	}
}
