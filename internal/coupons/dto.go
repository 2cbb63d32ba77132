package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
)

// CouponDTO is the admin-facing coupon payload.
type CouponDTO struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	IsActive        bool       `json:"is_active"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	MaxUsage        *int       `json:"max_usage,omitempty"`
	UsageCount      int        `json:"usage_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ValidatedCouponDTO is the shopper-facing payload returned when a code
// passes validation. It deliberately omits usage counters.
type ValidatedCouponDTO struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
}

// NewCouponDTO builds a DTO from the persisted model.
func NewCouponDTO(coupon *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:              coupon.ID,
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
		IsActive:        coupon.IsActive,
		ExpiresAt:       coupon.ExpiresAt,
		MaxUsage:        coupon.MaxUsage,
		UsageCount:      coupon.UsageCount,
		CreatedAt:       coupon.CreatedAt,
		UpdatedAt:       coupon.UpdatedAt,
	}
}

// CouponListResult is the paginated admin listing payload.
type CouponListResult struct {
	Coupons    []CouponDTO `json:"coupons"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
