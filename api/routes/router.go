package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adiwijaya/larisin-backend/api/controllers"
	"github.com/adiwijaya/larisin-backend/api/middleware"
	"github.com/adiwijaya/larisin-backend/internal/cart"
	"github.com/adiwijaya/larisin-backend/internal/catalog"
	checkoutsvc "github.com/adiwijaya/larisin-backend/internal/checkout"
	"github.com/adiwijaya/larisin-backend/internal/coupons"
	"github.com/adiwijaya/larisin-backend/internal/orders"
	"github.com/adiwijaya/larisin-backend/pkg/config"
	"github.com/adiwijaya/larisin-backend/pkg/db"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
	"github.com/adiwijaya/larisin-backend/pkg/redis"
)

// NewRouter wires every HTTP surface onto a chi router.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	couponService coupons.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	// Catalog browsing stays public; the gateway only injects identity
	// headers for signed-in traffic.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItemQty(cartService, logg))
			r.Patch("/items/{itemId}/select", controllers.CartSelectItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/quote", controllers.CheckoutQuote(checkoutService, logg))
		})

		r.Post("/coupons/validate", controllers.CouponValidate(couponService, logg))
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/payment-proof", controllers.OrderPaymentProof(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(catalogService, logg))
			r.Post("/{productId}/flash-sale", controllers.AdminStartSale(catalogService, logg))
			r.Delete("/{productId}/flash-sale", controllers.AdminStopSale(catalogService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(couponService, logg))
			r.Post("/", controllers.AdminCreateCoupon(couponService, logg))
			r.Patch("/{couponId}/active", controllers.AdminSetCouponActive(couponService, logg))
			r.Delete("/{couponId}", controllers.AdminDeleteCoupon(couponService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Post("/{orderId}/advance", controllers.AdminAdvanceOrder(ordersService, logg))
		})
	})

	return r
}
