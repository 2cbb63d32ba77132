package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the canonical catalog listing. Sale fields describe the
// current flash-sale window; they are written only by the flash-sale
// controller and stay in place after the window lapses until an admin
// explicitly stops the sale. Readers must never trust the stored
// fields alone; use SaleActiveAt / EffectivePriceAt.
type Product struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title               string     `gorm:"column:title;not null"`
	Category            string     `gorm:"column:category;not null;index"`
	BasePrice           int64      `gorm:"column:base_price;not null"`
	SaleDiscountPercent *int       `gorm:"column:sale_discount_percent"`
	SaleEndsAt          *time.Time `gorm:"column:sale_ends_at"`
	IsActive            bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleActiveAt reports whether the stored sale window is live at the
// given instant. A lapsed window counts as no sale even though the
// stored fields are still set.
func (p Product) SaleActiveAt(now time.Time) bool {
	if p.SaleDiscountPercent == nil || p.SaleEndsAt == nil {
		return false
	}
	return now.Before(*p.SaleEndsAt)
}

// EffectivePriceAt returns the price a shopper pays at the given
// instant. The result never exceeds BasePrice and never goes negative.
func (p Product) EffectivePriceAt(now time.Time) int64 {
	if !p.SaleActiveAt(now) {
		return p.BasePrice
	}
	pct := int64(*p.SaleDiscountPercent)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	discounted := p.BasePrice - p.BasePrice*pct/100
	if discounted < 0 {
		return 0
	}
	return discounted
}
