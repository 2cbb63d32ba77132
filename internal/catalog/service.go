package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

// Service exposes catalog browsing, admin product management and the
// flash-sale controls.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	StartSale(ctx context.Context, id uuid.UUID, input StartSaleInput) (*ProductDTO, error)
	StopSale(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title     string
	Category  string
	BasePrice int64
	IsActive  bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title     *string
	Category  *string
	BasePrice *int64
	IsActive  *bool
}

// StartSaleInput arms a flash-sale window on a product.
type StartSaleInput struct {
	DiscountPercent int
	EndsAt          time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product, s.now()), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	now := s.now()

	filters := input.Filters
	if input.OnSaleOnly {
		filters.OnSaleAt = &now
	}

	page, err := s.repo.List(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    filters,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	result := &ProductListResult{
		Products:   make([]ProductDTO, 0, len(page.Products)),
		NextCursor: page.NextCursor,
	}
	for i := range page.Products {
		result.Products = append(result.Products, *NewProductDTO(&page.Products[i], now))
	}
	return result, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.BasePrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price cannot be negative")
	}

	product := &models.Product{
		ID:        uuid.New(),
		Title:     input.Title,
		Category:  input.Category,
		BasePrice: input.BasePrice,
		IsActive:  input.IsActive,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return NewProductDTO(created, s.now()), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = *input.Title
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base_price cannot be negative")
		}
		product.BasePrice = *input.BasePrice
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return NewProductDTO(updated, s.now()), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

// StartSale arms a flash-sale window. A still-live window rejects with a
// conflict; a lapsed window is treated as free even though its columns
// were never cleared.
func (s *service) StartSale(ctx context.Context, id uuid.UUID, input StartSaleInput) (*ProductDTO, error) {
	now := s.now()

	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 1 and 100")
	}
	if !input.EndsAt.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be in the future")
	}

	if _, err := s.findProduct(ctx, id); err != nil {
		return nil, err
	}

	affected, err := s.repo.BeginSale(ctx, id, input.DiscountPercent, input.EndsAt, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "starting flash sale")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already has an active flash sale")
	}

	return s.GetProduct(ctx, id)
}

// StopSale clears the flash-sale window. Stopping a product without a
// window is a no-op rather than an error.
func (s *service) StopSale(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if _, err := s.findProduct(ctx, id); err != nil {
		return nil, err
	}

	if _, err := s.repo.EndSale(ctx, id, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stopping flash sale")
	}
	return s.GetProduct(ctx, id)
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return product, nil
}
