package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya/larisin-backend/pkg/db/models"
	"github.com/adiwijaya/larisin-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists all columns of the product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product row by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).
		Error
}

// BeginSale arms the flash-sale window with a single conditional update.
// The update only lands when no live window exists, so two admins racing
// to start a sale cannot both win. Returns the number of rows changed.
func (r *Repository) BeginSale(ctx context.Context, id uuid.UUID, percent int, endsAt, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND (sale_discount_percent IS NULL OR sale_ends_at IS NULL OR sale_ends_at <= ?)", id, now).
		Updates(map[string]any{
			"sale_discount_percent": percent,
			"sale_ends_at":          endsAt,
			"updated_at":            now,
		})
	return res.RowsAffected, res.Error
}

// EndSale clears the flash-sale window. Returns the number of rows changed.
func (r *Repository) EndSale(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND sale_discount_percent IS NOT NULL", id).
		Updates(map[string]any{
			"sale_discount_percent": nil,
			"sale_ends_at":          nil,
			"updated_at":            now,
		})
	return res.RowsAffected, res.Error
}

// List returns a cursor-paginated page of products.
func (r *Repository) List(ctx context.Context, query productListQuery) (*ProductPage, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.OnSaleAt != nil {
		at := *filter.OnSaleAt
		qb = qb.Where("sale_discount_percent IS NOT NULL AND sale_ends_at > ?", at)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(title) LIKE ?", pattern)
	}
	if query.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ProductPage{
		Products:   rows,
		NextCursor: nextCursor,
	}, nil
}
