package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/enums"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// Order is the immutable placement snapshot. The priced breakdown is
// fixed at creation; later coupon or product edits never touch it.
// Only Status, PaymentProofRef and UpdatedAt change after creation.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	ShippingMethod  enums.ShippingMethod  `gorm:"column:shipping_method;not null"`
	ShippingDetails types.ShippingDetails `gorm:"column:shipping_details;type:text;not null"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	PaymentProofRef *string               `gorm:"column:payment_proof_ref"`

	CouponID   *uuid.UUID `gorm:"column:coupon_id;type:uuid"`
	CouponCode *string    `gorm:"column:coupon_code"`

	GrossSubtotal   int64 `gorm:"column:gross_subtotal;not null"`
	ItemSavings     int64 `gorm:"column:item_savings;not null"`
	NetBeforeCoupon int64 `gorm:"column:net_before_coupon;not null"`
	CouponDiscount  int64 `gorm:"column:coupon_discount;not null"`
	ShippingCost    int64 `gorm:"column:shipping_cost;not null"`
	Tax             int64 `gorm:"column:tax;not null"`
	Total           int64 `gorm:"column:total;not null"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
