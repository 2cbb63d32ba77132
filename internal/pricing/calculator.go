package pricing

import (
	"fmt"

	"github.com/adiwijaya/larisin-backend/pkg/enums"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

// Line is a single priced cart row. UnitPrice is the amount actually
// charged per unit; CompareAtPrice is the pre-sale reference price when
// the row was added during a live flash sale, nil otherwise.
type Line struct {
	UnitPrice      int64
	CompareAtPrice *int64
	Qty            int
	Selected       bool
}

// Breakdown is the full priced result for a set of lines. All amounts
// are whole rupiah; Total is never negative.
type Breakdown struct {
	GrossSubtotal   int64 `json:"gross_subtotal"`
	ItemSavings     int64 `json:"item_savings"`
	NetBeforeCoupon int64 `json:"net_before_coupon"`
	CouponDiscount  int64 `json:"coupon_discount"`
	ShippingCost    int64 `json:"shipping_cost"`
	Tax             int64 `json:"tax"`
	Total           int64 `json:"total"`
}

// Calculator prices carts from configured shipping fees and a flat
// per-order tax. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	shippingFees map[enums.ShippingMethod]int64
	taxPerOrder  int64
}

// DefaultShippingFees returns the standard flat fee per shipping method.
func DefaultShippingFees() map[enums.ShippingMethod]int64 {
	return map[enums.ShippingMethod]int64{
		enums.ShippingMethodEconomy:  15000,
		enums.ShippingMethodStandard: 25000,
		enums.ShippingMethodExpress:  50000,
	}
}

// NewCalculator constructs a calculator from shipping fees and the flat tax.
func NewCalculator(shippingFees map[enums.ShippingMethod]int64, taxPerOrder int64) (*Calculator, error) {
	if len(shippingFees) == 0 {
		return nil, fmt.Errorf("shipping fees required")
	}
	if taxPerOrder < 0 {
		return nil, fmt.Errorf("tax per order cannot be negative")
	}
	fees := make(map[enums.ShippingMethod]int64, len(shippingFees))
	for method, fee := range shippingFees {
		if !method.IsValid() {
			return nil, fmt.Errorf("invalid shipping method %q", method)
		}
		if fee < 0 {
			return nil, fmt.Errorf("shipping fee for %q cannot be negative", method)
		}
		fees[method] = fee
	}
	return &Calculator{shippingFees: fees, taxPerOrder: taxPerOrder}, nil
}

// ShippingFee returns the flat fee for the given method.
func (c *Calculator) ShippingFee(method enums.ShippingMethod) (int64, error) {
	fee, ok := c.shippingFees[method]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported shipping method %q", method))
	}
	return fee, nil
}

// TaxPerOrder returns the configured flat tax.
func (c *Calculator) TaxPerOrder() int64 {
	return c.taxPerOrder
}

// Quote prices the selected lines. couponPercent, when non-nil, applies
// a percentage discount floored to whole rupiah against the net subtotal.
// Unselected lines contribute nothing.
func (c *Calculator) Quote(lines []Line, couponPercent *int, method enums.ShippingMethod) (*Breakdown, error) {
	shipping, err := c.ShippingFee(method)
	if err != nil {
		return nil, err
	}

	var gross, savings int64
	for _, line := range lines {
		if !line.Selected {
			continue
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line unit price cannot be negative")
		}

		qty := int64(line.Qty)
		reference := line.UnitPrice
		if line.CompareAtPrice != nil && *line.CompareAtPrice > line.UnitPrice {
			reference = *line.CompareAtPrice
		}
		gross += reference * qty
		savings += (reference - line.UnitPrice) * qty
	}

	net := gross - savings

	var couponDiscount int64
	if couponPercent != nil {
		p := *couponPercent
		if p < 0 || p > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon percent must be between 0 and 100")
		}
		couponDiscount = net * int64(p) / 100
	}

	total := net - couponDiscount + shipping + c.taxPerOrder
	if total < 0 {
		total = 0
	}

	return &Breakdown{
		GrossSubtotal:   gross,
		ItemSavings:     savings,
		NetBeforeCoupon: net,
		CouponDiscount:  couponDiscount,
		ShippingCost:    shipping,
		Tax:             c.taxPerOrder,
		Total:           total,
	}, nil
}
