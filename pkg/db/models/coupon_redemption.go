package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponRedemption records one committed coupon use. The (coupon, user)
// uniqueness backs the once-per-user rule; the (coupon, order)
// uniqueness makes placement retries idempotent.
type CouponRedemption struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID  uuid.UUID `gorm:"column:coupon_id;type:uuid;not null;uniqueIndex:ux_coupon_redemptions_user;uniqueIndex:ux_coupon_redemptions_order"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_coupon_redemptions_user"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_coupon_redemptions_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
