package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwijaya/larisin-backend/api/responses"
	"github.com/adiwijaya/larisin-backend/api/validators"
	"github.com/adiwijaya/larisin-backend/internal/catalog"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
)

type adminCreateProductRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Category  string `json:"category" validate:"required,max=100"`
	BasePrice int64  `json:"base_price" validate:"required,min=1"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type adminUpdateProductRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=100"`
	BasePrice *int64  `json:"base_price,omitempty" validate:"omitempty,min=1"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

type adminStartSaleRequest struct {
	DiscountPercent int       `json:"discount_percent" validate:"required,min=1,max=100"`
	EndsAt          time.Time `json:"ends_at" validate:"required"`
}

// AdminCreateProduct registers a new catalog entry.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminCreateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		dto, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Title:     req.Title,
			Category:  req.Category,
			BasePrice: req.BasePrice,
			IsActive:  active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adminUpdateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			Title:     req.Title,
			Category:  req.Category,
			BasePrice: req.BasePrice,
			IsActive:  req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

// AdminStartSale arms a flash-sale window on a product.
func AdminStartSale(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adminStartSaleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.StartSale(r.Context(), id, catalog.StartSaleInput{
			DiscountPercent: req.DiscountPercent,
			EndsAt:          req.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminStopSale clears the flash-sale window on a product.
func AdminStopSale(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.StopSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
