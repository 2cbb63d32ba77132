package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/internal/cart"
	"github.com/adiwijaya/larisin-backend/internal/orders"
	"github.com/adiwijaya/larisin-backend/internal/pricing"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/enums"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// PlaceOrderInput is the validated checkout payload.
type PlaceOrderInput struct {
	CouponCode      string
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	ShippingDetails types.ShippingDetails
}

// QuoteInput previews the breakdown without placing anything.
type QuoteInput struct {
	CouponCode     string
	ShippingMethod enums.ShippingMethod
}

// Service turns an active cart into a placed order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error)
	Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*pricing.Breakdown, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	ActiveCartModel(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
}

type couponLedger interface {
	Resolve(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error)
	CommitUsage(ctx context.Context, tx *gorm.DB, couponID, userID, orderID uuid.UUID) error
}

type service struct {
	tx         txRunner
	carts      cartSource
	cartRepo   *cart.Repository
	coupons    couponLedger
	ordersRepo *orders.Repository
	calc       *pricing.Calculator
}

// NewService constructs a checkout service instance.
func NewService(tx txRunner, carts cartSource, cartRepo *cart.Repository, coupons couponLedger, ordersRepo *orders.Repository, calc *pricing.Calculator) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon ledger required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	return &service{
		tx:         tx,
		carts:      carts,
		cartRepo:   cartRepo,
		coupons:    coupons,
		ordersRepo: ordersRepo,
		calc:       calc,
	}, nil
}

// Quote prices the current selection without touching any state.
func (s *service) Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*pricing.Breakdown, error) {
	record, err := s.carts.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.resolveCoupon(ctx, input.CouponCode, userID)
	if err != nil {
		return nil, err
	}

	return s.price(record.Items, coupon, input.ShippingMethod)
}

// PlaceOrder freezes the selected cart lines into an order, commits the
// coupon redemption and converts the cart, all in one transaction. Any
// failure rolls the whole placement back.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if !input.ShippingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shipping method %q", input.ShippingMethod))
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
	if err := input.ShippingDetails.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping details")
	}

	record, err := s.carts.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	selected := selectedItems(record.Items)
	if len(selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items selected for checkout")
	}

	coupon, err := s.resolveCoupon(ctx, input.CouponCode, userID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.price(record.Items, coupon, input.ShippingMethod)
	if err != nil {
		return nil, err
	}

	order := buildOrder(userID, input, coupon, breakdown, selected)

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}

		if coupon != nil {
			if err := s.coupons.CommitUsage(ctx, tx, coupon.ID, userID, order.ID); err != nil {
				return err
			}
		}

		affected, err := s.cartRepo.WithTx(tx).MarkConverted(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "converting cart")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart was already checked out")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	placed, err := s.ordersRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading placed order")
	}
	return orders.NewOrderDTO(placed), nil
}

func (s *service) resolveCoupon(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	return s.coupons.Resolve(ctx, code, userID)
}

func (s *service) price(items []models.CartItem, coupon *models.Coupon, method enums.ShippingMethod) (*pricing.Breakdown, error) {
	var percent *int
	if coupon != nil {
		percent = &coupon.DiscountPercent
	}
	return s.calc.Quote(cart.PricingLines(items), percent, method)
}

func selectedItems(items []models.CartItem) []models.CartItem {
	selected := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

func buildOrder(userID uuid.UUID, input PlaceOrderInput, coupon *models.Coupon, breakdown *pricing.Breakdown, selected []models.CartItem) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		ShippingMethod:  input.ShippingMethod,
		ShippingDetails: input.ShippingDetails,
		PaymentMethod:   input.PaymentMethod,
		GrossSubtotal:   breakdown.GrossSubtotal,
		ItemSavings:     breakdown.ItemSavings,
		NetBeforeCoupon: breakdown.NetBeforeCoupon,
		CouponDiscount:  breakdown.CouponDiscount,
		ShippingCost:    breakdown.ShippingCost,
		Tax:             breakdown.Tax,
		Total:           breakdown.Total,
	}
	if coupon != nil {
		couponID := coupon.ID
		couponCode := coupon.Code
		order.CouponID = &couponID
		order.CouponCode = &couponCode
	}

	order.LineItems = make([]models.OrderLineItem, 0, len(selected))
	for _, item := range selected {
		productID := item.ProductID
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      &productID,
			Title:          item.ProductTitle,
			UnitPrice:      item.UnitPrice,
			CompareAtPrice: item.CompareAtPrice,
			Qty:            item.Qty,
			Attributes:     item.Attributes,
			LineTotal:      item.UnitPrice * int64(item.Qty),
		})
	}
	return order
}
