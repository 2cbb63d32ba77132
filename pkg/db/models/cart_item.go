package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// CartItem snapshots a product at add-time. UnitPrice is what the
// shopper will actually be charged; CompareAtPrice carries the pre-sale
// reference price when the product was on a live flash sale at add-time
// and is nil otherwise.
type CartItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	ProductTitle   string           `gorm:"column:product_title;not null"`
	UnitPrice      int64            `gorm:"column:unit_price;not null"`
	CompareAtPrice *int64           `gorm:"column:compare_at_price"`
	Qty            int              `gorm:"column:qty;not null;default:1"`
	Attributes     types.Attributes `gorm:"column:attributes;type:text"`
	Selected       bool             `gorm:"column:selected;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
