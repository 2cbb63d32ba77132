package catalog

import (
	"time"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category *string    `json:"category,omitempty"`
	OnSaleAt *time.Time `json:"-"`
	Query    string     `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/filter products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
	OnSaleOnly bool
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	ActiveOnly bool
}

// ProductPage is a raw repository page before DTO mapping.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// ProductListResult is the paginated browse payload.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
