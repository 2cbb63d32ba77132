package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// OrderLineItem is the frozen copy of a cart item at placement time.
// ProductID is nullable so catalog deletions cannot orphan the audit trail.
type OrderLineItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	Title          string           `gorm:"column:title;not null"`
	UnitPrice      int64            `gorm:"column:unit_price;not null"`
	CompareAtPrice *int64           `gorm:"column:compare_at_price"`
	Qty            int              `gorm:"column:qty;not null"`
	Attributes     types.Attributes `gorm:"column:attributes;type:text"`
	LineTotal      int64            `gorm:"column:line_total;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}
