package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// OrderLineItemDTO is one frozen line on a placed order.
type OrderLineItemDTO struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      *uuid.UUID       `json:"product_id,omitempty"`
	Title          string           `json:"title"`
	UnitPrice      int64            `json:"unit_price"`
	CompareAtPrice *int64           `json:"compare_at_price,omitempty"`
	Qty            int              `json:"qty"`
	Attributes     types.Attributes `json:"attributes,omitempty"`
	LineTotal      int64            `json:"line_total"`
}

// BreakdownDTO mirrors the priced totals frozen on the order row.
type BreakdownDTO struct {
	GrossSubtotal   int64 `json:"gross_subtotal"`
	ItemSavings     int64 `json:"item_savings"`
	NetBeforeCoupon int64 `json:"net_before_coupon"`
	CouponDiscount  int64 `json:"coupon_discount"`
	ShippingCost    int64 `json:"shipping_cost"`
	Tax             int64 `json:"tax"`
	Total           int64 `json:"total"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	Status          string                `json:"status"`
	ShippingMethod  string                `json:"shipping_method"`
	ShippingDetails types.ShippingDetails `json:"shipping_details"`
	PaymentMethod   string                `json:"payment_method"`
	PaymentProofRef *string               `json:"payment_proof_ref,omitempty"`
	CouponCode      *string               `json:"coupon_code,omitempty"`
	Breakdown       BreakdownDTO          `json:"breakdown"`
	Items           []OrderLineItemDTO    `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewOrderDTO builds a DTO from the persisted order.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status.String(),
		ShippingMethod:  order.ShippingMethod.String(),
		ShippingDetails: order.ShippingDetails,
		PaymentMethod:   order.PaymentMethod.String(),
		PaymentProofRef: order.PaymentProofRef,
		CouponCode:      order.CouponCode,
		Breakdown: BreakdownDTO{
			GrossSubtotal:   order.GrossSubtotal,
			ItemSavings:     order.ItemSavings,
			NetBeforeCoupon: order.NetBeforeCoupon,
			CouponDiscount:  order.CouponDiscount,
			ShippingCost:    order.ShippingCost,
			Tax:             order.Tax,
			Total:           order.Total,
		},
		Items:     make([]OrderLineItemDTO, 0, len(order.LineItems)),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.LineItems {
		dto.Items = append(dto.Items, OrderLineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Title:          item.Title,
			UnitPrice:      item.UnitPrice,
			CompareAtPrice: item.CompareAtPrice,
			Qty:            item.Qty,
			Attributes:     item.Attributes,
			LineTotal:      item.LineTotal,
		})
	}
	return dto
}

// OrderListResult is the paginated listing payload.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
