package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/internal/pricing"
	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// CartItemDTO is one snapshot row in the shopper's cart.
type CartItemDTO struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	ProductTitle   string           `json:"product_title"`
	UnitPrice      int64            `json:"unit_price"`
	CompareAtPrice *int64           `json:"compare_at_price,omitempty"`
	Qty            int              `json:"qty"`
	Attributes     types.Attributes `json:"attributes,omitempty"`
	Selected       bool             `json:"selected"`
	LineTotal      int64            `json:"line_total"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CartDTO is the full cart payload.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Status    string        `json:"status"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewCartDTO builds a DTO from the persisted cart and its items.
func NewCartDTO(record *models.CartRecord) *CartDTO {
	dto := &CartDTO{
		ID:        record.ID,
		UserID:    record.UserID,
		Status:    record.Status.String(),
		Items:     make([]CartItemDTO, 0, len(record.Items)),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	for _, item := range record.Items {
		dto.Items = append(dto.Items, CartItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductTitle:   item.ProductTitle,
			UnitPrice:      item.UnitPrice,
			CompareAtPrice: item.CompareAtPrice,
			Qty:            item.Qty,
			Attributes:     item.Attributes,
			Selected:       item.Selected,
			LineTotal:      item.UnitPrice * int64(item.Qty),
			CreatedAt:      item.CreatedAt,
		})
	}
	return dto
}

// PricingLines converts cart items into calculator input.
func PricingLines(items []models.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			UnitPrice:      item.UnitPrice,
			CompareAtPrice: item.CompareAtPrice,
			Qty:            item.Qty,
			Selected:       item.Selected,
		})
	}
	return lines
}
