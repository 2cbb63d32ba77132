package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a percentage discount redeemable at most once per user.
// UsageCount only moves inside the order-placement transaction; the
// redemption rows are the source of truth it mirrors.
type Coupon struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string             `gorm:"column:code;not null;uniqueIndex:ux_coupons_code"`
	DiscountPercent int                `gorm:"column:discount_percent;not null"`
	IsActive        bool               `gorm:"column:is_active;not null;default:true"`
	ExpiresAt       *time.Time         `gorm:"column:expires_at"`
	MaxUsage        *int               `gorm:"column:max_usage"`
	UsageCount      int                `gorm:"column:usage_count;not null;default:0"`
	CreatedBy       uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	Redemptions     []CouponRedemption `gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ExpiredAt reports whether the coupon's expiry has passed at the given instant.
func (c Coupon) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// UsageExhausted reports whether the redemption cap has been reached.
func (c Coupon) UsageExhausted() bool {
	return c.MaxUsage != nil && c.UsageCount >= *c.MaxUsage
}
