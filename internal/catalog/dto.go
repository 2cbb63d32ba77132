package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. EffectivePrice
// and OnSale are evaluated against the request time, so a lapsed sale
// window reads at base price even before any admin touches the row.
type ProductDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Title               string     `json:"title"`
	Category            string     `json:"category"`
	BasePrice           int64      `json:"base_price"`
	EffectivePrice      int64      `json:"effective_price"`
	OnSale              bool       `json:"on_sale"`
	SaleDiscountPercent *int       `json:"sale_discount_percent,omitempty"`
	SaleEndsAt          *time.Time `json:"sale_ends_at,omitempty"`
	IsActive            bool       `json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model, pricing it at now.
func NewProductDTO(product *models.Product, now time.Time) *ProductDTO {
	dto := &ProductDTO{
		ID:             product.ID,
		Title:          product.Title,
		Category:       product.Category,
		BasePrice:      product.BasePrice,
		EffectivePrice: product.EffectivePriceAt(now),
		OnSale:         product.SaleActiveAt(now),
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	if dto.OnSale {
		dto.SaleDiscountPercent = product.SaleDiscountPercent
		dto.SaleEndsAt = product.SaleEndsAt
	}
	return dto
}
