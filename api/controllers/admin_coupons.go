package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwijaya/larisin-backend/api/responses"
	"github.com/adiwijaya/larisin-backend/api/validators"
	"github.com/adiwijaya/larisin-backend/internal/coupons"
	"github.com/adiwijaya/larisin-backend/pkg/logger"
)

type adminCreateCouponRequest struct {
	Code            string     `json:"code,omitempty" validate:"omitempty,min=4,max=32"`
	DiscountPercent int        `json:"discount_percent" validate:"required,min=1,max=100"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	MaxUsage        *int       `json:"max_usage,omitempty" validate:"omitempty,min=1"`
}

type adminSetCouponActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminCreateCoupon issues a new coupon, generating a code when none given.
func AdminCreateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorAdminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adminCreateCouponRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), coupons.CreateCouponInput{
			Code:            req.Code,
			DiscountPercent: req.DiscountPercent,
			ExpiresAt:       req.ExpiresAt,
			MaxUsage:        req.MaxUsage,
			CreatedBy:       adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminListCoupons pages through all coupons.
func AdminListCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context(), validators.PaginationParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminSetCouponActive toggles a coupon on or off.
func AdminSetCouponActive(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "couponId"), "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req adminSetCouponActiveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetActive(r.Context(), id, *req.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminDeleteCoupon removes a coupon.
func AdminDeleteCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(chi.URLParam(r, "couponId"), "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
