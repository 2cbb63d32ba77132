package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
	"github.com/adiwijaya/larisin-backend/pkg/types"
)

// maxQtyPerItem bounds a single cart row.
const maxQtyPerItem = 99

// Service exposes the shopper cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error)
	SetItemSelected(ctx context.Context, userID, itemID uuid.UUID, selected bool) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	ActiveCartModel(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
}

// AddItemInput holds the validated payload to add a product to the cart.
type AddItemInput struct {
	ProductID  uuid.UUID
	Qty        int
	Attributes types.Attributes
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLoader
	now      func() time.Time
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(record), nil
}

// ActiveCartModel returns the user's active cart, creating an empty one
// on first touch.
func (s *service) ActiveCartModel(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	created, err := s.repo.Create(ctx, &models.CartRecord{
		ID:     uuid.New(),
		UserID: userID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating cart")
	}
	created.Items = []models.CartItem{}
	return created, nil
}

// AddItem snapshots the product's current effective price into the cart.
// When the product is on a live flash sale the base price rides along as
// the compare-at reference; a lapsed sale snapshots at base price.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Qty < 1 || input.Qty > maxQtyPerItem {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 1 and %d", maxQtyPerItem))
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is not available")
	}

	record, err := s.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	unitPrice := product.EffectivePriceAt(now)
	var compareAt *int64
	if product.SaleActiveAt(now) {
		base := product.BasePrice
		compareAt = &base
	}

	existing, err := s.repo.FindItemByProduct(ctx, record.ID, product.ID)
	switch {
	case err == nil:
		// Same product again: bump qty and refresh the price snapshot.
		existing.Qty += input.Qty
		if existing.Qty > maxQtyPerItem {
			existing.Qty = maxQtyPerItem
		}
		existing.UnitPrice = unitPrice
		existing.CompareAtPrice = compareAt
		if input.Attributes != nil {
			existing.Attributes = input.Attributes
		}
		if _, err := s.repo.UpdateItem(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			ID:             uuid.New(),
			CartID:         record.ID,
			ProductID:      product.ID,
			ProductTitle:   product.Title,
			UnitPrice:      unitPrice,
			CompareAtPrice: compareAt,
			Qty:            input.Qty,
			Attributes:     input.Attributes,
			Selected:       true,
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart item")
	}

	return s.GetCart(ctx, userID)
}

func (s *service) UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error) {
	if qty < 1 || qty > maxQtyPerItem {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 1 and %d", maxQtyPerItem))
	}

	_, item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	item.Qty = qty
	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) SetItemSelected(ctx context.Context, userID, itemID uuid.UUID, selected bool) (*CartDTO, error) {
	_, item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	item.Selected = selected
	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	record, err := s.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.DeleteItem(ctx, record.ID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) findOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartRecord, *models.CartItem, error) {
	record, err := s.ActiveCartModel(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.repo.FindItem(ctx, record.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart item")
	}
	return record, item, nil
}
